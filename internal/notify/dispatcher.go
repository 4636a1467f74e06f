// Package notify sends channel-appropriate acknowledgments and transactional
// emails. Delivery failures are logged and counted, never returned.
package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"restaurant-webhooks/internal/client"
	"restaurant-webhooks/internal/extract"
	"restaurant-webhooks/internal/lang"
	"restaurant-webhooks/internal/metrics"
	"restaurant-webhooks/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"

	outcomeSent    = "sent"
	outcomeFailed  = "failed"
	outcomeSkipped = "skipped"
)

type Dispatcher interface {
	// Confirm acknowledges a freshly created order on the channel it came from.
	Confirm(ctx context.Context, order *model.Order, l lang.Language)
}

type dispatcherImpl struct {
	twilio             client.TwilioClient
	whatsAppContentSID string
}

func NewDispatcher(twilio client.TwilioClient, whatsAppContentSID string) Dispatcher {
	return &dispatcherImpl{
		twilio:             twilio,
		whatsAppContentSID: whatsAppContentSID,
	}
}

func (d *dispatcherImpl) Confirm(ctx context.Context, order *model.Order, l lang.Language) {
	logger := log.With().Str("order_id", order.ID).Str("tenant_id", order.TenantID).Str("source", order.Source).Logger()

	// checkout orders are acknowledged by the payment emails
	if order.Source == model.SourceCheckout {
		return
	}
	if order.CustomerPhone == "" {
		logger.Warn().Msg("order has no customer phone, confirmation skipped")
		metrics.NotificationsTotal.WithLabelValues(channelFor(order.Source), outcomeSkipped).Inc()
		return
	}

	var (
		channel string
		sid     string
		err     error
	)
	switch order.Source {
	case model.SourceSMS, model.SourceVoice:
		channel = ChannelSMS
		sid, err = d.twilio.SendSMS(ctx, order.CustomerPhone, ConfirmationText(order, l))
	case model.SourceWhatsApp:
		channel = ChannelWhatsApp
		sid, err = d.twilio.SendWhatsApp(ctx, order.CustomerPhone, d.whatsAppConfirmation(order, l))
	default:
		logger.Warn().Msg("no confirmation channel for order source")
		return
	}

	if err != nil {
		logger.Error().Err(err).Str("channel", channel).Msg("send order confirmation")
		metrics.NotificationsTotal.WithLabelValues(channel, outcomeFailed).Inc()
		return
	}

	logger.Info().Str("channel", channel).Str("message_sid", sid).Msg("order confirmation sent")
	metrics.NotificationsTotal.WithLabelValues(channel, outcomeSent).Inc()
}

// whatsAppConfirmation uses the quick-reply content template when one is
// configured, otherwise numbered options in the body.
func (d *dispatcherImpl) whatsAppConfirmation(order *model.Order, l lang.Language) client.WhatsAppMessage {
	if d.whatsAppContentSID != "" {
		return client.WhatsAppMessage{
			ContentSID: d.whatsAppContentSID,
			ContentVariables: map[string]string{
				"1": order.Reference,
				"2": itemSummary(order),
				"3": money(order.TotalAmount, order.Currency),
			},
		}
	}

	t := textsFor(l)
	var b strings.Builder
	b.WriteString(ConfirmationText(order, l))
	for i, option := range t.QuickReplies {
		b.WriteString("\n")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(" ")
		b.WriteString(option)
	}
	return client.WhatsAppMessage{Body: b.String()}
}

func ConfirmationText(order *model.Order, l lang.Language) string {
	t := textsFor(l)
	if len(order.Items) == 0 {
		return fmt.Sprintf(t.OrderReceivedNoItems, order.Reference)
	}
	return fmt.Sprintf(t.OrderReceived, order.Reference, itemSummary(order), money(order.TotalAmount, order.Currency))
}

// InquiryReply is the canned answer to a message that is not an order.
func InquiryReply(tenant *model.Tenant, intent extract.Intent, l lang.Language) string {
	t := textsFor(l)
	switch intent.Topic {
	case extract.TopicHours:
		if tenant != nil && tenant.OpeningHours != "" {
			return fmt.Sprintf(t.HoursReply, tenant.OpeningHours)
		}
		return t.HoursUnknown
	case extract.TopicMenu:
		if tenant != nil && tenant.MenuURL != "" {
			return fmt.Sprintf(t.MenuReply, tenant.MenuURL)
		}
		return t.MenuUnknown
	default:
		return t.Fallback
	}
}

func itemSummary(order *model.Order) string {
	parts := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, item.Name))
	}
	return strings.Join(parts, ", ")
}

func money(amount decimal.Decimal, currency string) string {
	return strings.ToUpper(currency) + " " + amount.StringFixed(2)
}

func channelFor(source string) string {
	if source == model.SourceWhatsApp {
		return ChannelWhatsApp
	}
	return ChannelSMS
}
