package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"restaurant-webhooks/internal/event"
	"restaurant-webhooks/internal/lang"
	"restaurant-webhooks/internal/model"
	"restaurant-webhooks/internal/notify"
	"restaurant-webhooks/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	paymentStatusSucceeded   = "succeeded"
	checkoutTypeSubscription = "subscription"
)

type PaymentService interface {
	// HandleEvent applies a decoded Stripe event exactly once per event id.
	HandleEvent(ctx context.Context, rec *model.WebhookEvent, ev event.Event) (Outcome, error)
	// Reject records an event whose payload could not be decoded.
	Reject(ctx context.Context, rec *model.WebhookEvent, cause error) (Outcome, error)
}

type paymentServiceImpl struct {
	ledger           EventLedger
	orderRepo        repository.OrderRepository
	paymentRepo      repository.PaymentRepository
	subscriptionRepo repository.SubscriptionRepository
	invoiceRepo      repository.InvoiceRepository
	tenantRepo       repository.TenantRepository
	customerRepo     repository.CustomerRepository
	mailer           notify.Mailer
}

func NewPaymentService(
	ledger EventLedger,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	subscriptionRepo repository.SubscriptionRepository,
	invoiceRepo repository.InvoiceRepository,
	tenantRepo repository.TenantRepository,
	customerRepo repository.CustomerRepository,
	mailer notify.Mailer,
) PaymentService {
	return &paymentServiceImpl{
		ledger:           ledger,
		orderRepo:        orderRepo,
		paymentRepo:      paymentRepo,
		subscriptionRepo: subscriptionRepo,
		invoiceRepo:      invoiceRepo,
		tenantRepo:       tenantRepo,
		customerRepo:     customerRepo,
		mailer:           mailer,
	}
}

func (s *paymentServiceImpl) HandleEvent(ctx context.Context, rec *model.WebhookEvent, ev event.Event) (Outcome, error) {
	logger := log.With().Str("event_id", rec.EventID).Str("type", rec.EventType).Logger()

	return s.ledger.Apply(ctx, rec, func(ctx context.Context, tx *gorm.DB, effects *Effects) error {
		t := &stripeTransition{paymentServiceImpl: s, tx: tx, effects: effects, rec: rec, logger: logger}

		switch e := ev.(type) {
		case event.PaymentEvent:
			return t.payment(ctx, e)
		case event.SubscriptionEvent:
			return t.subscription(ctx, e)
		case event.InvoiceEvent:
			return t.invoice(ctx, e)
		case event.CheckoutEvent:
			return t.checkout(ctx, e)
		case event.CustomerEvent:
			return t.customer(ctx, e)
		case event.Unknown:
			logger.Info().Msg("no handler for event type, recorded only")
			return nil
		default:
			return fmt.Errorf("%w: %T", ErrUnhandledVariant, ev)
		}
	})
}

func (s *paymentServiceImpl) Reject(ctx context.Context, rec *model.WebhookEvent, cause error) (Outcome, error) {
	return s.ledger.Reject(ctx, rec, cause)
}

// stripeTransition is the state of one event being applied inside the ledger transaction.
type stripeTransition struct {
	*paymentServiceImpl
	tx      *gorm.DB
	effects *Effects
	rec     *model.WebhookEvent
	logger  zerolog.Logger
}

func (t *stripeTransition) payment(ctx context.Context, ev event.PaymentEvent) error {
	switch e := ev.(type) {
	case event.PaymentIntentSucceeded:
		return t.paymentSucceeded(ctx, e.Intent)
	case event.PaymentIntentFailed:
		return t.paymentFailed(ctx, e.Intent)
	case event.ChargeSucceeded:
		return t.chargeSucceeded(ctx, e.Charge)
	case event.ChargeRefunded:
		return t.chargeRefunded(ctx, e.Charge)
	default:
		return fmt.Errorf("%w: %T", ErrUnhandledVariant, ev)
	}
}

func (t *stripeTransition) paymentSucceeded(ctx context.Context, intent event.PaymentIntent) error {
	order, err := t.orderFromMetadata(ctx, intent.Metadata)
	if err != nil || order == nil {
		return err
	}

	amount := intent.AmountReceived
	if amount == 0 {
		amount = intent.Amount
	}
	if err := t.markPaid(ctx, order, intent.ID, amount, intent.Currency, intent.Method()); err != nil {
		return err
	}

	to := firstNonEmpty(order.CustomerEmail, intent.ReceiptEmail)
	t.effects.Defer(func(ctx context.Context) {
		t.mailer.PaymentSucceeded(ctx, to, order)
	})
	return nil
}

func (t *stripeTransition) chargeSucceeded(ctx context.Context, charge event.Charge) error {
	order, err := t.orderForCharge(ctx, charge)
	if err != nil || order == nil {
		return err
	}

	providerPaymentID := charge.PaymentIntent.String()
	if providerPaymentID == "" {
		providerPaymentID = charge.ID
	}
	return t.markPaid(ctx, order, providerPaymentID, charge.Amount, charge.Currency, charge.Method())
}

// markPaid is shared by intent and charge events; the Payment is keyed by
// intent id so both events of one payment record it once.
func (t *stripeTransition) markPaid(ctx context.Context, order *model.Order, providerPaymentID string, amount int64, currency, method string) error {
	err := t.orderRepo.Update(ctx, t.tx, order.TenantID, order.ID, map[string]interface{}{
		"payment_status": model.PaymentStatusPaid,
		"payment_error":  "",
	})
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}

	created, err := t.paymentRepo.CreateIfNotExists(ctx, t.tx, &model.Payment{
		TenantID:          order.TenantID,
		OrderID:           order.ID,
		ProviderPaymentID: providerPaymentID,
		Amount:            fromMinorUnits(amount),
		Currency:          strings.ToUpper(currency),
		Status:            paymentStatusSucceeded,
		Method:            method,
		EventID:           t.rec.EventID,
	})
	if err != nil {
		return fmt.Errorf("record payment: %w", err)
	}

	t.logger.Info().
		Str("tenant_id", order.TenantID).
		Str("order_id", order.ID).
		Bool("payment_recorded", created).
		Msg("order marked paid")
	return nil
}

func (t *stripeTransition) paymentFailed(ctx context.Context, intent event.PaymentIntent) error {
	order, err := t.orderFromMetadata(ctx, intent.Metadata)
	if err != nil || order == nil {
		return err
	}

	reason := intent.FailureMessage()
	err = t.orderRepo.Update(ctx, t.tx, order.TenantID, order.ID, map[string]interface{}{
		"payment_status": model.PaymentStatusFailed,
		"payment_error":  truncate(reason, 512),
	})
	if err != nil {
		return fmt.Errorf("mark order payment failed: %w", err)
	}

	t.logger.Info().Str("tenant_id", order.TenantID).Str("order_id", order.ID).Str("reason", reason).Msg("order payment failed")

	to := firstNonEmpty(order.CustomerEmail, intent.ReceiptEmail)
	t.effects.Defer(func(ctx context.Context) {
		t.mailer.PaymentFailed(ctx, to, order, reason)
	})
	return nil
}

func (t *stripeTransition) chargeRefunded(ctx context.Context, charge event.Charge) error {
	order, err := t.orderForCharge(ctx, charge)
	if err != nil || order == nil {
		return err
	}

	status := model.RefundStatusRefunded
	if charge.AmountRefunded < charge.Amount {
		status = model.RefundStatusPartiallyRefunded
	}

	err = t.orderRepo.Update(ctx, t.tx, order.TenantID, order.ID, map[string]interface{}{
		"refund_status": status,
	})
	if err != nil {
		return fmt.Errorf("mark order refunded: %w", err)
	}

	// amount_refunded is the charge's running total; store only what this event adds
	recorded, err := t.refundedSoFar(ctx, order.ID, charge.ID)
	if err != nil {
		return err
	}
	amount := fromMinorUnits(charge.AmountRefunded).Sub(recorded)
	if !amount.IsPositive() {
		t.logger.Info().Str("order_id", order.ID).Str("charge_id", charge.ID).Msg("refund total unchanged, nothing to record")
		return nil
	}

	err = t.paymentRepo.CreateRefund(ctx, t.tx, &model.Refund{
		TenantID:         order.TenantID,
		OrderID:          order.ID,
		ProviderChargeID: charge.ID,
		Amount:           amount,
		Currency:         strings.ToUpper(charge.Currency),
		EventID:          t.rec.EventID,
	})
	if err != nil {
		return fmt.Errorf("record refund: %w", err)
	}

	t.logger.Info().Str("tenant_id", order.TenantID).Str("order_id", order.ID).Str("refund_status", status).Msg("order refunded")
	return nil
}

func (t *stripeTransition) refundedSoFar(ctx context.Context, orderID, chargeID string) (decimal.Decimal, error) {
	refunds, err := t.paymentRepo.ListRefunds(ctx, t.tx, orderID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list refunds: %w", err)
	}

	total := decimal.Zero
	for _, r := range refunds {
		if r.ProviderChargeID == chargeID {
			total = total.Add(r.Amount)
		}
	}
	return total, nil
}

func (t *stripeTransition) subscription(ctx context.Context, ev event.SubscriptionEvent) error {
	switch e := ev.(type) {
	case event.SubscriptionCreated:
		return t.subscriptionCreated(ctx, e.Subscription)
	case event.SubscriptionUpdated:
		return t.subscriptionUpdated(ctx, e.Subscription)
	case event.SubscriptionDeleted:
		return t.subscriptionDeleted(ctx, e.Subscription)
	case event.SubscriptionTrialWillEnd:
		return t.trialWillEnd(ctx, e.Subscription)
	default:
		return fmt.Errorf("%w: %T", ErrUnhandledVariant, ev)
	}
}

func (t *stripeTransition) subscriptionCreated(ctx context.Context, sub event.Subscription) error {
	tenant, err := t.tenant(ctx, sub.Metadata.TenantID())
	if err != nil || tenant == nil {
		return err
	}

	if err := t.subscriptionRepo.Upsert(ctx, t.tx, subscriptionModel(tenant.ID, sub, t.rec.EventID)); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	plan := sub.Metadata.Plan()
	if plan == "" && len(sub.Items.Data) > 0 {
		plan = sub.Items.Data[0].Price.ID
	}
	err = t.tenantRepo.Update(ctx, t.tx, tenant.ID, map[string]interface{}{
		"plan":                 plan,
		"subscription_status":  sub.Status,
		"provider_customer_id": sub.Customer.String(),
	})
	if err != nil {
		return fmt.Errorf("update tenant plan: %w", err)
	}

	t.logger.Info().Str("tenant_id", tenant.ID).Str("subscription_id", sub.ID).Str("status", sub.Status).Msg("subscription created")
	return nil
}

func (t *stripeTransition) subscriptionUpdated(ctx context.Context, sub event.Subscription) error {
	existing, err := t.existingSubscription(ctx, sub.ID)
	if err != nil || existing == nil {
		return err
	}

	if err := t.subscriptionRepo.Upsert(ctx, t.tx, subscriptionModel(existing.TenantID, sub, t.rec.EventID)); err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}

	err = t.tenantRepo.Update(ctx, t.tx, existing.TenantID, map[string]interface{}{
		"subscription_status": sub.Status,
	})
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("update tenant subscription status: %w", err)
	}

	t.logger.Info().Str("tenant_id", existing.TenantID).Str("subscription_id", sub.ID).Str("status", sub.Status).Msg("subscription updated")
	return nil
}

func (t *stripeTransition) subscriptionDeleted(ctx context.Context, sub event.Subscription) error {
	existing, err := t.existingSubscription(ctx, sub.ID)
	if err != nil || existing == nil {
		return err
	}

	endedAt := event.Unix(sub.EndedAt)
	if endedAt == nil {
		now := time.Now().UTC()
		endedAt = &now
	}
	canceledAt := event.Unix(sub.CanceledAt)
	if canceledAt == nil {
		canceledAt = endedAt
	}

	err = t.subscriptionRepo.Update(ctx, t.tx, sub.ID, map[string]interface{}{
		"status":        model.SubscriptionStatusCanceled,
		"canceled_at":   canceledAt,
		"last_event_id": t.rec.EventID,
	})
	if err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}

	tenant, err := t.tenant(ctx, existing.TenantID)
	if err != nil || tenant == nil {
		return err
	}
	err = t.tenantRepo.Update(ctx, t.tx, tenant.ID, map[string]interface{}{
		"subscription_status":   model.SubscriptionStatusCanceled,
		"subscription_ended_at": endedAt,
	})
	if err != nil {
		return fmt.Errorf("end tenant subscription: %w", err)
	}

	t.logger.Info().Str("tenant_id", tenant.ID).Str("subscription_id", sub.ID).Msg("subscription canceled")
	t.effects.Defer(func(ctx context.Context) {
		t.mailer.SubscriptionCanceled(ctx, tenant)
	})
	return nil
}

func (t *stripeTransition) trialWillEnd(ctx context.Context, sub event.Subscription) error {
	existing, err := t.existingSubscription(ctx, sub.ID)
	if err != nil || existing == nil {
		return err
	}

	tenant, err := t.tenant(ctx, existing.TenantID)
	if err != nil || tenant == nil {
		return err
	}

	trialEnd := event.Unix(sub.TrialEnd)
	t.effects.Defer(func(ctx context.Context) {
		t.mailer.TrialEnding(ctx, tenant, trialEnd)
	})
	return nil
}

func (t *stripeTransition) invoice(ctx context.Context, ev event.InvoiceEvent) error {
	switch e := ev.(type) {
	case event.InvoiceCreated:
		return t.upsertInvoice(ctx, e.Invoice, model.InvoiceStatusOpen)
	case event.InvoicePaid:
		return t.upsertInvoice(ctx, e.Invoice, model.InvoiceStatusPaid)
	case event.InvoicePaymentFailed:
		return t.upsertInvoice(ctx, e.Invoice, model.InvoiceStatusPaymentFailed)
	default:
		return fmt.Errorf("%w: %T", ErrUnhandledVariant, ev)
	}
}

func (t *stripeTransition) upsertInvoice(ctx context.Context, inv event.Invoice, status string) error {
	tenantID := inv.TenantID()
	subscriptionID := inv.SubscriptionID()
	if tenantID == "" && subscriptionID != "" {
		sub, err := t.subscriptionRepo.GetByProviderID(ctx, t.tx, subscriptionID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("get invoice subscription: %w", err)
		}
		if sub != nil {
			tenantID = sub.TenantID
		}
	}
	if tenantID == "" {
		t.logger.Warn().Str("invoice_id", inv.ID).Msg("invoice has no resolvable tenant, skipping")
		return nil
	}

	amount := inv.AmountDue
	var paidAt *time.Time
	if status == model.InvoiceStatusPaid {
		amount = inv.AmountPaid
		paidAt = event.Unix(inv.StatusTransitions.PaidAt)
		if paidAt == nil {
			now := time.Now().UTC()
			paidAt = &now
		}
	}

	invoice := &model.Invoice{
		TenantID:               tenantID,
		ProviderInvoiceID:      inv.ID,
		ProviderSubscriptionID: subscriptionID,
		Amount:                 fromMinorUnits(amount),
		Currency:               strings.ToUpper(inv.Currency),
		Status:                 status,
		DueDate:                event.Unix(inv.DueDate),
		PaidAt:                 paidAt,
		LastEventID:            t.rec.EventID,
	}
	if err := t.invoiceRepo.Upsert(ctx, t.tx, invoice); err != nil {
		return fmt.Errorf("upsert invoice: %w", err)
	}

	t.logger.Info().Str("tenant_id", tenantID).Str("invoice_id", inv.ID).Str("status", status).Msg("invoice recorded")

	if status != model.InvoiceStatusPaymentFailed {
		return nil
	}
	tenant, err := t.tenant(ctx, tenantID)
	if err != nil || tenant == nil {
		return err
	}
	t.effects.Defer(func(ctx context.Context) {
		t.mailer.InvoicePaymentFailed(ctx, tenant, invoice)
	})
	return nil
}

func (t *stripeTransition) checkout(ctx context.Context, ev event.CheckoutEvent) error {
	switch e := ev.(type) {
	case event.CheckoutCompleted:
		return t.checkoutCompleted(ctx, e.Session)
	case event.CheckoutExpired:
		return t.checkoutExpired(ctx, e.Session)
	default:
		return fmt.Errorf("%w: %T", ErrUnhandledVariant, ev)
	}
}

func (t *stripeTransition) checkoutCompleted(ctx context.Context, session event.CheckoutSession) error {
	if session.Metadata.Type() == checkoutTypeSubscription {
		t.logger.Info().
			Str("tenant_id", session.Metadata.TenantID()).
			Str("subscription_id", session.Subscription.String()).
			Msg("subscription checkout completed")
		return nil
	}

	order, err := t.orderFromMetadata(ctx, checkoutMetadata(session))
	if err != nil || order == nil {
		return err
	}

	updates := map[string]interface{}{
		"checkout_session_id": session.ID,
		"checkout_status":     model.CheckoutStatusCompleted,
	}
	if session.PaymentStatus == model.PaymentStatusPaid {
		updates["payment_status"] = model.PaymentStatusPaid
	}
	if order.CustomerEmail == "" && session.CustomerEmail() != "" {
		updates["customer_email"] = session.CustomerEmail()
	}
	if err := t.orderRepo.Update(ctx, t.tx, order.TenantID, order.ID, updates); err != nil {
		return fmt.Errorf("complete order checkout: %w", err)
	}

	t.logger.Info().Str("tenant_id", order.TenantID).Str("order_id", order.ID).Msg("order checkout completed")
	return nil
}

func (t *stripeTransition) checkoutExpired(ctx context.Context, session event.CheckoutSession) error {
	order, err := t.orderFromMetadata(ctx, checkoutMetadata(session))
	if err != nil || order == nil {
		return err
	}

	err = t.orderRepo.Update(ctx, t.tx, order.TenantID, order.ID, map[string]interface{}{
		"status":              model.OrderStatusExpired,
		"checkout_session_id": session.ID,
		"checkout_status":     model.CheckoutStatusExpired,
	})
	if err != nil {
		return fmt.Errorf("expire order: %w", err)
	}

	t.logger.Info().Str("tenant_id", order.TenantID).Str("order_id", order.ID).Msg("order checkout expired")
	return nil
}

func (t *stripeTransition) customer(ctx context.Context, ev event.CustomerEvent) error {
	switch e := ev.(type) {
	case event.CustomerCreated:
		return t.upsertCustomer(ctx, e.Customer)
	case event.CustomerUpdated:
		return t.upsertCustomer(ctx, e.Customer)
	case event.CustomerDeleted:
		return t.deleteCustomer(ctx, e.Customer)
	case event.SetupIntentSucceeded:
		return t.setupIntentSucceeded(ctx, e.SetupIntent)
	default:
		return fmt.Errorf("%w: %T", ErrUnhandledVariant, ev)
	}
}

func (t *stripeTransition) upsertCustomer(ctx context.Context, c event.Customer) error {
	tenantID := c.Metadata.TenantID()
	if tenantID == "" {
		t.logger.Warn().Str("customer_id", c.ID).Msg("customer has no tenant metadata, skipping")
		return nil
	}

	preferred := ""
	if l, ok := lang.Parse(c.PreferredLanguage()); ok {
		preferred = string(l)
	}

	providerID := c.ID
	err := t.customerRepo.Upsert(ctx, t.tx, &model.Customer{
		TenantID:           tenantID,
		Phone:              lang.NormalizePhone(c.Phone),
		Email:              c.Email,
		Name:               c.Name,
		PreferredLanguage:  preferred,
		ProviderCustomerID: &providerID,
	})
	if err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}

	t.logger.Info().Str("tenant_id", tenantID).Str("customer_id", c.ID).Msg("customer synced")
	return nil
}

func (t *stripeTransition) deleteCustomer(ctx context.Context, c event.Customer) error {
	err := t.customerRepo.SoftDelete(ctx, t.tx, c.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t.logger.Warn().Str("customer_id", c.ID).Msg("deleted customer not found, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	t.logger.Info().Str("customer_id", c.ID).Msg("customer deleted")
	return nil
}

func (t *stripeTransition) setupIntentSucceeded(ctx context.Context, intent event.SetupIntent) error {
	customerID := intent.Customer.String()
	if customerID == "" || intent.PaymentMethod == "" {
		t.logger.Warn().Str("setup_intent_id", intent.ID).Msg("setup intent has no customer or payment method, skipping")
		return nil
	}

	err := t.customerRepo.SetDefaultPaymentMethod(ctx, t.tx, customerID, intent.PaymentMethod.String())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t.logger.Warn().Str("customer_id", customerID).Msg("setup intent customer not found, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("store default payment method: %w", err)
	}

	t.logger.Info().Str("customer_id", customerID).Msg("default payment method stored")
	return nil
}

// orderFromMetadata returns nil without error when the metadata does not
// name an order of a known tenant.
func (t *stripeTransition) orderFromMetadata(ctx context.Context, meta event.Metadata) (*model.Order, error) {
	tenantID, orderID := meta.TenantID(), meta.OrderID()
	if tenantID == "" || orderID == "" {
		t.logger.Warn().Msg("event has no tenant or order metadata, skipping")
		return nil, nil
	}

	order, err := t.orderRepo.FindByID(ctx, t.tx, tenantID, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t.logger.Warn().Str("tenant_id", tenantID).Str("order_id", orderID).Msg("order not found, skipping")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

// orderForCharge falls back to the payment recorded for the charge's intent
// when the charge carries no metadata of its own.
func (t *stripeTransition) orderForCharge(ctx context.Context, charge event.Charge) (*model.Order, error) {
	if charge.Metadata.TenantID() != "" || charge.PaymentIntent == "" {
		return t.orderFromMetadata(ctx, charge.Metadata)
	}

	payment, err := t.paymentRepo.GetByProviderID(ctx, t.tx, charge.PaymentIntent.String())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t.logger.Warn().Str("charge_id", charge.ID).Msg("charge has no metadata and no known payment, skipping")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find payment for charge: %w", err)
	}

	return t.orderFromMetadata(ctx, event.Metadata{"tenantId": payment.TenantID, "orderId": payment.OrderID})
}

func (t *stripeTransition) tenant(ctx context.Context, tenantID string) (*model.Tenant, error) {
	if tenantID == "" {
		t.logger.Warn().Msg("event has no tenant metadata, skipping")
		return nil, nil
	}

	tenant, err := t.tenantRepo.Get(ctx, t.tx, tenantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t.logger.Warn().Str("tenant_id", tenantID).Msg("tenant not found, skipping")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return tenant, nil
}

func (t *stripeTransition) existingSubscription(ctx context.Context, providerSubscriptionID string) (*model.Subscription, error) {
	sub, err := t.subscriptionRepo.GetByProviderID(ctx, t.tx, providerSubscriptionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t.logger.Warn().Str("subscription_id", providerSubscriptionID).Msg("subscription not found, skipping")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

func subscriptionModel(tenantID string, sub event.Subscription, eventID string) *model.Subscription {
	start, end := sub.PeriodWindow()

	items := make([]model.SubscriptionItem, 0, len(sub.Items.Data))
	for _, item := range sub.Items.Data {
		items = append(items, model.SubscriptionItem{
			ID:        item.ID,
			PriceID:   item.Price.ID,
			ProductID: item.Price.Product.String(),
			Quantity:  item.Quantity,
		})
	}

	return &model.Subscription{
		TenantID:               tenantID,
		ProviderSubscriptionID: sub.ID,
		ProviderCustomerID:     sub.Customer.String(),
		Status:                 sub.Status,
		Items:                  items,
		CurrentPeriodStart:     event.Unix(start),
		CurrentPeriodEnd:       event.Unix(end),
		CancelAtPeriodEnd:      sub.CancelAtPeriodEnd,
		TrialEnd:               event.Unix(sub.TrialEnd),
		CanceledAt:             event.Unix(sub.CanceledAt),
		LastEventID:            eventID,
	}
}

// checkoutMetadata lets client_reference_id stand in for a missing orderId.
func checkoutMetadata(session event.CheckoutSession) event.Metadata {
	if session.Metadata.OrderID() != "" || session.ClientReferenceID == "" {
		return session.Metadata
	}
	meta := event.Metadata{"orderId": session.ClientReferenceID}
	for k, v := range session.Metadata {
		meta[k] = v
	}
	return meta
}

// fromMinorUnits converts Stripe's integer cents to major units.
func fromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// truncate caps s at limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
