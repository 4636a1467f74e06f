package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"restaurant-webhooks/internal/event"
	"restaurant-webhooks/internal/model"
	"restaurant-webhooks/internal/repository"
	"restaurant-webhooks/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

type mailCall struct {
	kind   string
	to     string
	reason string
}

type fakeMailer struct {
	calls []mailCall
}

func (m *fakeMailer) PaymentSucceeded(_ context.Context, to string, _ *model.Order) {
	m.calls = append(m.calls, mailCall{kind: "payment_succeeded", to: to})
}

func (m *fakeMailer) PaymentFailed(_ context.Context, to string, _ *model.Order, reason string) {
	m.calls = append(m.calls, mailCall{kind: "payment_failed", to: to, reason: reason})
}

func (m *fakeMailer) SubscriptionCanceled(_ context.Context, tenant *model.Tenant) {
	m.calls = append(m.calls, mailCall{kind: "subscription_canceled", to: tenant.Email})
}

func (m *fakeMailer) TrialEnding(_ context.Context, tenant *model.Tenant, _ *time.Time) {
	m.calls = append(m.calls, mailCall{kind: "trial_ending", to: tenant.Email})
}

func (m *fakeMailer) InvoicePaymentFailed(_ context.Context, tenant *model.Tenant, _ *model.Invoice) {
	m.calls = append(m.calls, mailCall{kind: "invoice_payment_failed", to: tenant.Email})
}

type paymentFixture struct {
	db      *gorm.DB
	svc     PaymentService
	mailer  *fakeMailer
	tenant  *model.Tenant
	order   *model.Order
	nextEvt int
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	db := testutil.NewDB(t)
	mailer := &fakeMailer{}

	svc := NewPaymentService(
		NewEventLedger(db, repository.NewWebhookEventRepository(db), "test"),
		repository.NewOrderRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewInvoiceRepository(db),
		repository.NewTenantRepository(db),
		repository.NewCustomerRepository(db),
		mailer,
	)

	tenant := testutil.CreateTenant(t, db, &model.Tenant{Name: "Trattoria Roma", Email: "owner@example.ch"})
	order := testutil.CreateOrder(t, db, &model.Order{
		TenantID:      tenant.ID,
		Reference:     "123456",
		CustomerEmail: "guest@example.ch",
		TotalAmount:   decimal.RequireFromString("50"),
	})

	return &paymentFixture{db: db, svc: svc, mailer: mailer, tenant: tenant, order: order}
}

func (f *paymentFixture) handle(t *testing.T, ev event.Event) Outcome {
	t.Helper()
	f.nextEvt++
	return f.handleAs(t, fmt.Sprintf("evt_%d", f.nextEvt), ev)
}

func (f *paymentFixture) handleAs(t *testing.T, eventID string, ev event.Event) Outcome {
	t.Helper()
	outcome, err := f.svc.HandleEvent(context.Background(), stripeRec(eventID, string(ev.Kind())), ev)
	require.NoError(t, err)
	return outcome
}

func (f *paymentFixture) reload(t *testing.T) *model.Order {
	t.Helper()
	var order model.Order
	require.NoError(t, f.db.First(&order, "id = ?", f.order.ID).Error)
	return &order
}

func (f *paymentFixture) meta() event.Metadata {
	return event.Metadata{"tenantId": f.tenant.ID, "orderId": f.order.ID}
}

func TestEveryStripeVariantIsHandled(t *testing.T) {
	f := newPaymentFixture(t)

	for i, typ := range event.StripeTypes() {
		ev, err := event.DecodeStripe(stripe.Event{
			ID:   fmt.Sprintf("evt_table_%d", i),
			Type: typ,
			Data: &stripe.EventData{Raw: json.RawMessage(`{"id":"obj_1"}`)},
		})
		require.NoError(t, err, typ)

		outcome, err := f.svc.HandleEvent(context.Background(), stripeRec(fmt.Sprintf("evt_table_%d", i), string(typ)), ev)
		require.NoError(t, err, typ)
		assert.Equal(t, OutcomeProcessed, outcome, typ)
	}
}

func TestUnknownEventIsRecorded(t *testing.T) {
	f := newPaymentFixture(t)

	assert.Equal(t, OutcomeProcessed, f.handle(t, event.Unknown{Type: "product.created"}))
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &model.WebhookEvent{}))
}

func TestPaymentSucceededIsIdempotent(t *testing.T) {
	f := newPaymentFixture(t)
	ev := event.PaymentIntentSucceeded{Intent: event.PaymentIntent{
		ID:                 "pi_1",
		Amount:             5000,
		AmountReceived:     5000,
		Currency:           "chf",
		PaymentMethodTypes: []string{"twint"},
		Metadata:           f.meta(),
	}}

	assert.Equal(t, OutcomeProcessed, f.handleAs(t, "evt_pay", ev))
	assert.Equal(t, OutcomeDuplicate, f.handleAs(t, "evt_pay", ev))

	assert.Equal(t, model.PaymentStatusPaid, f.reload(t).PaymentStatus)
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &model.Payment{}))
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &model.WebhookEvent{}))

	var payment model.Payment
	require.NoError(t, f.db.First(&payment).Error)
	assert.Equal(t, "pi_1", payment.ProviderPaymentID)
	assert.Equal(t, "CHF", payment.Currency)
	assert.Equal(t, "twint", payment.Method)
	assert.True(t, decimal.RequireFromString("50").Equal(payment.Amount))

	require.Len(t, f.mailer.calls, 1)
	assert.Equal(t, mailCall{kind: "payment_succeeded", to: "guest@example.ch"}, f.mailer.calls[0])
}

func TestChargeAfterIntentRecordsOnePayment(t *testing.T) {
	f := newPaymentFixture(t)

	f.handle(t, event.PaymentIntentSucceeded{Intent: event.PaymentIntent{ID: "pi_1", Amount: 5000, Currency: "chf", Metadata: f.meta()}})
	f.handle(t, event.ChargeSucceeded{Charge: event.Charge{ID: "ch_1", Amount: 5000, Currency: "chf", PaymentIntent: "pi_1"}})

	assert.Equal(t, int64(1), testutil.Count(t, f.db, &model.Payment{}))
	assert.Equal(t, model.PaymentStatusPaid, f.reload(t).PaymentStatus)
}

func TestMissingOrForeignMetadataIsNoop(t *testing.T) {
	f := newPaymentFixture(t)
	other := testutil.CreateTenant(t, f.db, &model.Tenant{Name: "Other", PhoneNumber: "+41220000000"})

	cases := []event.Metadata{
		nil,
		{"tenantId": f.tenant.ID},
		{"orderId": f.order.ID},
		{"tenantId": other.ID, "orderId": f.order.ID},
		{"tenantId": f.tenant.ID, "orderId": "does-not-exist"},
	}
	for _, meta := range cases {
		outcome := f.handle(t, event.PaymentIntentSucceeded{Intent: event.PaymentIntent{ID: "pi_x", Amount: 100, Currency: "chf", Metadata: meta}})
		assert.Equal(t, OutcomeProcessed, outcome)
	}

	assert.Equal(t, model.PaymentStatusUnpaid, f.reload(t).PaymentStatus)
	assert.Equal(t, int64(0), testutil.Count(t, f.db, &model.Payment{}))
	assert.Equal(t, int64(len(cases)), testutil.Count(t, f.db, &model.WebhookEvent{}))
	assert.Empty(t, f.mailer.calls)
}

func TestPaymentFailedStoresReason(t *testing.T) {
	f := newPaymentFixture(t)

	f.handle(t, event.PaymentIntentFailed{Intent: event.PaymentIntent{
		ID:               "pi_2",
		Metadata:         f.meta(),
		LastPaymentError: &event.PaymentError{Code: "card_declined", Message: "Your card was declined."},
	}})

	order := f.reload(t)
	assert.Equal(t, model.PaymentStatusFailed, order.PaymentStatus)
	assert.Equal(t, "Your card was declined.", order.PaymentError)
	require.Len(t, f.mailer.calls, 1)
	assert.Equal(t, "payment_failed", f.mailer.calls[0].kind)
	assert.Equal(t, "Your card was declined.", f.mailer.calls[0].reason)
}

func TestChargeRefunded(t *testing.T) {
	f := newPaymentFixture(t)

	f.handle(t, event.ChargeRefunded{Charge: event.Charge{
		ID: "ch_1", Amount: 5000, AmountRefunded: 1250, Currency: "chf", Metadata: f.meta(),
	}})
	assert.Equal(t, model.RefundStatusPartiallyRefunded, f.reload(t).RefundStatus)

	f.handle(t, event.ChargeRefunded{Charge: event.Charge{
		ID: "ch_1", Amount: 5000, AmountRefunded: 5000, Refunded: true, Currency: "chf", Metadata: f.meta(),
	}})
	assert.Equal(t, model.RefundStatusRefunded, f.reload(t).RefundStatus)

	refunds, err := repository.NewPaymentRepository(f.db).ListRefunds(context.Background(), nil, f.order.ID)
	require.NoError(t, err)
	require.Len(t, refunds, 2)
	amounts := []string{refunds[0].Amount.StringFixed(2), refunds[1].Amount.StringFixed(2)}
	assert.ElementsMatch(t, []string{"12.50", "37.50"}, amounts)

	total := refunds[0].Amount.Add(refunds[1].Amount)
	assert.True(t, decimal.RequireFromString("50").Equal(total))
}

func TestChargeRefundedRedeliveredTotalAddsNoRefund(t *testing.T) {
	f := newPaymentFixture(t)
	charge := event.Charge{ID: "ch_1", Amount: 5000, AmountRefunded: 2000, Currency: "chf", Metadata: f.meta()}

	f.handle(t, event.ChargeRefunded{Charge: charge})
	// a second event carrying the same running total, e.g. charge.refund.updated
	f.handle(t, event.ChargeRefunded{Charge: charge})

	assert.Equal(t, int64(1), testutil.Count(t, f.db, &model.Refund{}))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "Carte refus", truncate("Carte refusée", 11))
	assert.Equal(t, "Carte refus", truncate("Carte refusée", 12))
	assert.Equal(t, "Carte refusé", truncate("Carte refusée", 13))
}

func TestSubscriptionLifecycle(t *testing.T) {
	f := newPaymentFixture(t)
	subs := repository.NewSubscriptionRepository(f.db)
	ctx := context.Background()

	sub := event.Subscription{
		ID:                 "sub_1",
		Customer:           "cus_1",
		Status:             "trialing",
		CurrentPeriodStart: 1700000000,
		CurrentPeriodEnd:   1702592000,
		TrialEnd:           1701000000,
		Metadata:           event.Metadata{"tenantId": f.tenant.ID, "plan": "pro"},
	}
	sub.Items.Data = []event.SubscriptionItem{{ID: "si_1", Quantity: 1, Price: event.Price{ID: "price_pro", Product: "prod_1"}}}

	f.handle(t, event.SubscriptionCreated{Subscription: sub})

	stored, err := subs.GetByProviderID(ctx, nil, "sub_1")
	require.NoError(t, err)
	assert.Equal(t, f.tenant.ID, stored.TenantID)
	assert.Equal(t, "trialing", stored.Status)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "prod_1", stored.Items[0].ProductID)

	var tenant model.Tenant
	require.NoError(t, f.db.First(&tenant, "id = ?", f.tenant.ID).Error)
	assert.Equal(t, "pro", tenant.Plan)
	assert.Equal(t, "cus_1", tenant.ProviderCustomerID)

	f.handle(t, event.SubscriptionTrialWillEnd{Subscription: sub})

	// updates carry no tenant metadata; the stored subscription resolves it
	sub.Status = "active"
	sub.CancelAtPeriodEnd = true
	sub.Metadata = nil
	f.handle(t, event.SubscriptionUpdated{Subscription: sub})

	stored, err = subs.GetByProviderID(ctx, nil, "sub_1")
	require.NoError(t, err)
	assert.Equal(t, "active", stored.Status)
	assert.True(t, stored.CancelAtPeriodEnd)

	sub.Status = "canceled"
	sub.EndedAt = 1702592000
	f.handle(t, event.SubscriptionDeleted{Subscription: sub})

	stored, err = subs.GetByProviderID(ctx, nil, "sub_1")
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusCanceled, stored.Status)

	require.NoError(t, f.db.First(&tenant, "id = ?", f.tenant.ID).Error)
	assert.Equal(t, model.SubscriptionStatusCanceled, tenant.SubscriptionStatus)
	require.NotNil(t, tenant.SubscriptionEndedAt)
	assert.Equal(t, int64(1702592000), tenant.SubscriptionEndedAt.Unix())

	require.Len(t, f.mailer.calls, 2)
	assert.Equal(t, "trial_ending", f.mailer.calls[0].kind)
	assert.Equal(t, mailCall{kind: "subscription_canceled", to: "owner@example.ch"}, f.mailer.calls[1])
}

func TestSubscriptionUpdateForUnknownSubscriptionIsNoop(t *testing.T) {
	f := newPaymentFixture(t)

	assert.Equal(t, OutcomeProcessed, f.handle(t, event.SubscriptionUpdated{Subscription: event.Subscription{ID: "sub_missing", Status: "active"}}))
	assert.Equal(t, int64(0), testutil.Count(t, f.db, &model.Subscription{}))
}

func TestInvoiceResolvesTenantThroughSubscription(t *testing.T) {
	f := newPaymentFixture(t)
	require.NoError(t, repository.NewSubscriptionRepository(f.db).Upsert(context.Background(), nil, &model.Subscription{
		TenantID: f.tenant.ID, ProviderSubscriptionID: "sub_1", Status: "active",
	}))

	inv := event.Invoice{ID: "in_1", Subscription: "sub_1", AmountDue: 4900, Currency: "chf"}
	f.handle(t, event.InvoiceCreated{Invoice: inv})
	f.handle(t, event.InvoicePaymentFailed{Invoice: inv})

	invoice, err := repository.NewInvoiceRepository(f.db).GetByProviderID(context.Background(), nil, "in_1")
	require.NoError(t, err)
	assert.Equal(t, f.tenant.ID, invoice.TenantID)
	assert.Equal(t, model.InvoiceStatusPaymentFailed, invoice.Status)
	assert.True(t, decimal.RequireFromString("49").Equal(invoice.Amount))

	require.Len(t, f.mailer.calls, 1)
	assert.Equal(t, "invoice_payment_failed", f.mailer.calls[0].kind)

	inv.AmountPaid = 4900
	inv.StatusTransitions.PaidAt = 1700000000
	f.handle(t, event.InvoicePaid{Invoice: inv})

	invoice, err = repository.NewInvoiceRepository(f.db).GetByProviderID(context.Background(), nil, "in_1")
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, invoice.Status)
	require.NotNil(t, invoice.PaidAt)
}

func TestInvoiceWithoutTenantIsNoop(t *testing.T) {
	f := newPaymentFixture(t)

	f.handle(t, event.InvoicePaid{Invoice: event.Invoice{ID: "in_2", AmountPaid: 100}})
	assert.Equal(t, int64(0), testutil.Count(t, f.db, &model.Invoice{}))
}

func TestCheckoutCompletedAndExpired(t *testing.T) {
	f := newPaymentFixture(t)

	f.handle(t, event.CheckoutCompleted{Session: event.CheckoutSession{
		ID:            "cs_1",
		PaymentStatus: "paid",
		Metadata:      event.Metadata{"tenantId": f.tenant.ID, "type": "order"},
		// client_reference_id carries the order id when metadata does not
		ClientReferenceID: f.order.ID,
	}})

	order := f.reload(t)
	assert.Equal(t, "cs_1", order.CheckoutSessionID)
	assert.Equal(t, model.CheckoutStatusCompleted, order.CheckoutStatus)
	assert.Equal(t, model.PaymentStatusPaid, order.PaymentStatus)

	second := testutil.CreateOrder(t, f.db, &model.Order{TenantID: f.tenant.ID, Reference: "654321"})
	f.handle(t, event.CheckoutExpired{Session: event.CheckoutSession{
		ID:       "cs_2",
		Metadata: event.Metadata{"tenant_id": f.tenant.ID, "order_id": second.ID},
	}})

	var expired model.Order
	require.NoError(t, f.db.First(&expired, "id = ?", second.ID).Error)
	assert.Equal(t, model.OrderStatusExpired, expired.Status)
	assert.Equal(t, model.CheckoutStatusExpired, expired.CheckoutStatus)
}

func TestSubscriptionCheckoutLeavesOrdersAlone(t *testing.T) {
	f := newPaymentFixture(t)

	f.handle(t, event.CheckoutCompleted{Session: event.CheckoutSession{
		ID:       "cs_sub",
		Metadata: event.Metadata{"tenantId": f.tenant.ID, "orderId": f.order.ID, "type": "subscription"},
	}})
	assert.Empty(t, f.reload(t).CheckoutSessionID)
}

func TestCustomerSync(t *testing.T) {
	f := newPaymentFixture(t)
	customers := repository.NewCustomerRepository(f.db)
	ctx := context.Background()

	f.handle(t, event.CustomerCreated{Customer: event.Customer{
		ID:               "cus_1",
		Email:            "anna@example.ch",
		Name:             "Anna",
		Phone:            "0041 79 123 45 67",
		PreferredLocales: []string{"fr-CH"},
		Metadata:         event.Metadata{"tenantId": f.tenant.ID},
	}})

	customer, err := customers.FindByProviderID(ctx, nil, "cus_1")
	require.NoError(t, err)
	assert.Equal(t, "+41791234567", customer.Phone)
	assert.Equal(t, "fr", customer.PreferredLanguage)

	f.handle(t, event.SetupIntentSucceeded{SetupIntent: event.SetupIntent{ID: "seti_1", Customer: "cus_1", PaymentMethod: "pm_1"}})
	customer, err = customers.FindByProviderID(ctx, nil, "cus_1")
	require.NoError(t, err)
	assert.Equal(t, "pm_1", customer.DefaultPaymentMethod)

	f.handle(t, event.CustomerDeleted{Customer: event.Customer{ID: "cus_1"}})
	_, err = customers.FindByProviderID(ctx, nil, "cus_1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// a second delete finds nothing and is a no-op
	assert.Equal(t, OutcomeProcessed, f.handle(t, event.CustomerDeleted{Customer: event.Customer{ID: "cus_1"}}))
}

func TestCustomerWithoutTenantIsNoop(t *testing.T) {
	f := newPaymentFixture(t)

	f.handle(t, event.CustomerCreated{Customer: event.Customer{ID: "cus_2", Email: "x@example.ch"}})
	assert.Equal(t, int64(0), testutil.Count(t, f.db, &model.Customer{}))
}
