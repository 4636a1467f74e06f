package notify

import (
	"context"
	"fmt"
	"time"

	"restaurant-webhooks/internal/email"
	"restaurant-webhooks/internal/lang"
	"restaurant-webhooks/internal/metrics"
	"restaurant-webhooks/internal/model"

	"github.com/rs/zerolog/log"
)

// Mailer sends payment and billing emails. Empty recipients are skipped.
type Mailer interface {
	PaymentSucceeded(ctx context.Context, to string, order *model.Order)
	PaymentFailed(ctx context.Context, to string, order *model.Order, reason string)
	SubscriptionCanceled(ctx context.Context, tenant *model.Tenant)
	TrialEnding(ctx context.Context, tenant *model.Tenant, trialEnd *time.Time)
	InvoicePaymentFailed(ctx context.Context, tenant *model.Tenant, invoice *model.Invoice)
}

type mailerImpl struct {
	sender         email.Sender
	from           string
	tenantLanguage lang.Language
}

// NewMailer writes customer emails in the order language and tenant emails in tenantLanguage.
func NewMailer(sender email.Sender, from string, tenantLanguage lang.Language) Mailer {
	return &mailerImpl{
		sender:         sender,
		from:           from,
		tenantLanguage: tenantLanguage,
	}
}

func (m *mailerImpl) PaymentSucceeded(ctx context.Context, to string, order *model.Order) {
	t := textsFor(orderLanguage(order, m.tenantLanguage))
	m.send(ctx, "payment-succeeded", to, t.PaymentSucceededSubject, t.Footer,
		fmt.Sprintf(t.PaymentSucceeded, order.Reference, money(order.TotalAmount, order.Currency)),
	)
}

func (m *mailerImpl) PaymentFailed(ctx context.Context, to string, order *model.Order, reason string) {
	t := textsFor(orderLanguage(order, m.tenantLanguage))
	lines := []string{fmt.Sprintf(t.PaymentFailed, order.Reference)}
	if reason != "" {
		lines = append(lines, fmt.Sprintf(t.PaymentFailedReason, reason))
	}
	m.send(ctx, "payment-failed", to, t.PaymentFailedSubject, t.Footer, lines...)
}

func (m *mailerImpl) SubscriptionCanceled(ctx context.Context, tenant *model.Tenant) {
	t := textsFor(m.tenantLanguage)
	m.send(ctx, "subscription-canceled", tenant.Email, t.SubscriptionCanceledSubject, t.Footer,
		fmt.Sprintf(t.SubscriptionCanceled, tenant.Name),
	)
}

func (m *mailerImpl) TrialEnding(ctx context.Context, tenant *model.Tenant, trialEnd *time.Time) {
	t := textsFor(m.tenantLanguage)
	date := "-"
	if trialEnd != nil {
		date = trialEnd.Format("02.01.2006")
	}
	m.send(ctx, "trial-ending", tenant.Email, t.TrialEndingSubject, t.Footer, fmt.Sprintf(t.TrialEnding, date))
}

func (m *mailerImpl) InvoicePaymentFailed(ctx context.Context, tenant *model.Tenant, invoice *model.Invoice) {
	t := textsFor(m.tenantLanguage)
	m.send(ctx, "invoice-payment-failed", tenant.Email, t.InvoiceFailedSubject, t.Footer,
		fmt.Sprintf(t.InvoiceFailed, money(invoice.Amount, invoice.Currency)),
	)
}

func (m *mailerImpl) send(ctx context.Context, tag, to, subject, footer string, lines ...string) {
	logger := log.With().Str("tag", tag).Logger()

	if to == "" {
		logger.Warn().Msg("no email recipient, notification skipped")
		metrics.NotificationsTotal.WithLabelValues(ChannelEmail, outcomeSkipped).Inc()
		return
	}

	html, text, err := email.RenderNotification(email.NotificationData{
		Title:  subject,
		Lines:  lines,
		Footer: footer,
	})
	if err != nil {
		logger.Error().Err(err).Msg("render notification email")
		metrics.NotificationsTotal.WithLabelValues(ChannelEmail, outcomeFailed).Inc()
		return
	}

	err = m.sender.Send(ctx, email.Message{
		From:    m.from,
		To:      to,
		Subject: subject,
		HTML:    html,
		Text:    text,
		Tag:     tag,
	})
	if err != nil {
		logger.Error().Err(err).Msg("send notification email")
		metrics.NotificationsTotal.WithLabelValues(ChannelEmail, outcomeFailed).Inc()
		return
	}

	logger.Info().Msg("notification email sent")
	metrics.NotificationsTotal.WithLabelValues(ChannelEmail, outcomeSent).Inc()
}

func orderLanguage(order *model.Order, fallback lang.Language) lang.Language {
	if l, ok := lang.Parse(order.Language); ok {
		return l
	}
	return fallback
}
