package service

import (
	"context"
	"testing"

	"restaurant-webhooks/internal/event"
	"restaurant-webhooks/internal/extract"
	"restaurant-webhooks/internal/lang"
	"restaurant-webhooks/internal/model"
	"restaurant-webhooks/internal/repository"
	"restaurant-webhooks/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	restaurantNumber = "+41445550000"
	zurichCaller     = "+41791234567"
	genevaCaller     = "+41221234567"
)

type confirmation struct {
	order *model.Order
	lang  lang.Language
}

type fakeDispatcher struct {
	sent []confirmation
}

func (d *fakeDispatcher) Confirm(_ context.Context, order *model.Order, l lang.Language) {
	d.sent = append(d.sent, confirmation{order: order, lang: l})
}

type telephonyFixture struct {
	db         *gorm.DB
	svc        TelephonyService
	dispatcher *fakeDispatcher
	tenant     *model.Tenant
}

func newTelephonyFixture(t *testing.T) *telephonyFixture {
	t.Helper()
	db := testutil.NewDB(t)
	dispatcher := &fakeDispatcher{}
	customers := repository.NewCustomerRepository(db)

	detector := lang.NewDetector(CustomerLanguages(customers), map[string]string{
		"+4122": "fr",
		"+4191": "it",
	}, lang.German)

	svc := NewTelephonyService(
		NewEventLedger(db, repository.NewWebhookEventRepository(db), "test"),
		repository.NewTenantRepository(db),
		repository.NewMenuRepository(db),
		repository.NewOrderRepository(db),
		customers,
		detector,
		extract.NewKeywordClassifier(),
		dispatcher,
		"https://hooks.example.ch",
	)

	tenant := testutil.CreateTenant(t, db, &model.Tenant{
		Name:           "Trattoria Roma",
		PhoneNumber:    restaurantNumber,
		OpeningHours:   "Di-So 11-23 Uhr",
		Address:        "Bahnhofstrasse 1, Zürich",
		TransferNumber: "+41445550001",
		Currency:       "CHF",
	})
	testutil.CreateMenu(t, db, tenant.ID, "Pizza Margherita", "Tiramisu")

	return &telephonyFixture{db: db, svc: svc, dispatcher: dispatcher, tenant: tenant}
}

func (f *telephonyFixture) handle(t *testing.T, ev event.TelephonyEvent) Reply {
	t.Helper()
	reply, err := f.svc.Handle(context.Background(), ev, "raw")
	require.NoError(t, err)
	return reply
}

func sms(sid, from, body string) event.SMSReceived {
	return event.SMSReceived{Message: event.InboundMessage{SID: sid, From: from, To: restaurantNumber, Body: body}}
}

func TestSMSOrderCreatesPendingOrder(t *testing.T) {
	f := newTelephonyFixture(t)
	text := "Ich möchte bitte zwei Pizza Margherita zum Abholen"

	reply := f.handle(t, sms("SM1", zurichCaller, text))
	assert.NotContains(t, reply.Document, "<Message>")

	var orders []model.Order
	require.NoError(t, f.db.Preload("Items").Find(&orders).Error)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, f.tenant.ID, order.TenantID)
	assert.Equal(t, model.SourceSMS, order.Source)
	assert.Equal(t, model.OrderStatusPendingConfirmation, order.Status)
	assert.Equal(t, model.FulfillmentPickup, order.FulfillmentType)
	assert.Equal(t, text, order.SpecialInstructions)
	assert.Equal(t, zurichCaller, order.CustomerPhone)
	assert.Equal(t, "de", order.Language)
	assert.Len(t, order.Reference, 6)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Pizza Margherita", order.Items[0].Name)
	assert.Equal(t, "18.50", order.TotalAmount.StringFixed(2))

	require.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, order.ID, f.dispatcher.sent[0].order.ID)
	assert.Equal(t, lang.German, f.dispatcher.sent[0].lang)
}

func TestSMSRedeliveryCreatesOneOrder(t *testing.T) {
	f := newTelephonyFixture(t)
	ev := sms("SM1", zurichCaller, "Ich möchte eine Pizza Margherita bestellen")

	f.handle(t, ev)
	f.handle(t, ev)

	assert.Equal(t, int64(1), testutil.Count(t, f.db, &model.Order{}))
	assert.Len(t, f.dispatcher.sent, 1)
}

func TestSMSOrderRetriesTakenReference(t *testing.T) {
	f := newTelephonyFixture(t)
	testutil.CreateOrder(t, f.db, &model.Order{TenantID: f.tenant.ID, Reference: "123456"})

	refs := []string{"123456", "123456", "654321"}
	f.svc.(*telephonyServiceImpl).newReference = func() string {
		ref := refs[0]
		refs = refs[1:]
		return ref
	}

	f.handle(t, sms("SM1", zurichCaller, "Ich möchte eine Pizza Margherita bestellen"))

	var order model.Order
	require.NoError(t, f.db.Preload("Items").First(&order, "source = ?", model.SourceSMS).Error)
	assert.Equal(t, "654321", order.Reference)
	assert.Len(t, order.Items, 1)
	assert.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &model.WebhookEvent{}))
}

func TestSMSOrderLinksKnownCustomer(t *testing.T) {
	f := newTelephonyFixture(t)
	providerID := "cus_1"
	customer := &model.Customer{TenantID: f.tenant.ID, Phone: zurichCaller, Email: "anna@example.ch", ProviderCustomerID: &providerID}
	require.NoError(t, f.db.Create(customer).Error)

	f.handle(t, sms("SM1", zurichCaller, "Ich möchte einen Tiramisu bestellen"))

	var order model.Order
	require.NoError(t, f.db.First(&order).Error)
	require.NotNil(t, order.CustomerID)
	assert.Equal(t, customer.ID, *order.CustomerID)
	assert.Equal(t, "anna@example.ch", order.CustomerEmail)
}

func TestSMSInquiryGetsCannedReply(t *testing.T) {
	f := newTelephonyFixture(t)

	reply := f.handle(t, sms("SM2", zurichCaller, "Wann habt ihr offen?"))

	assert.Contains(t, reply.Document, "<Message>")
	assert.Contains(t, reply.Document, "Di-So 11-23 Uhr")
	assert.Equal(t, int64(0), testutil.Count(t, f.db, &model.Order{}))
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &model.WebhookEvent{}))
	assert.Empty(t, f.dispatcher.sent)
}

func TestWhatsAppOrderInFrench(t *testing.T) {
	f := newTelephonyFixture(t)

	f.handle(t, event.WhatsAppReceived{Message: event.InboundMessage{
		SID:  "SM3",
		From: "whatsapp:" + zurichCaller,
		To:   "whatsapp:" + restaurantNumber,
		Body: "Bonjour, je voudrais commander un tiramisu en livraison",
	}})

	var order model.Order
	require.NoError(t, f.db.First(&order).Error)
	assert.Equal(t, model.SourceWhatsApp, order.Source)
	assert.Equal(t, model.FulfillmentDelivery, order.FulfillmentType)
	assert.Equal(t, zurichCaller, order.CustomerPhone)
	assert.Equal(t, "fr", order.Language)
	require.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, lang.French, f.dispatcher.sent[0].lang)
}

func TestMessageToUnknownNumberGetsFallback(t *testing.T) {
	f := newTelephonyFixture(t)

	reply := f.handle(t, event.SMSReceived{Message: event.InboundMessage{
		SID: "SM4", From: zurichCaller, To: "+41440000000", Body: "Ich möchte bestellen",
	}})

	assert.Contains(t, reply.Document, "<Message>")
	assert.Equal(t, int64(0), testutil.Count(t, f.db, &model.Order{}))
}

func call(sid, from string) event.CallContext {
	return event.CallContext{CallSID: sid, From: from, To: restaurantNumber, CallStatus: "in-progress"}
}

func TestIncomingCallGreetsInCallerLanguage(t *testing.T) {
	f := newTelephonyFixture(t)

	reply := f.handle(t, event.VoiceCallReceived{Call: call("CA1", genevaCaller)})

	assert.Contains(t, reply.Document, "Bienvenue chez Trattoria Roma.")
	assert.Contains(t, reply.Document, `language="fr-FR"`)
	assert.Contains(t, reply.Document, "https://hooks.example.ch/webhooks/twilio/voice/menu")
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &model.WebhookEvent{}))
}

func TestRepeatedGreetingIsServedAgain(t *testing.T) {
	f := newTelephonyFixture(t)

	first := f.handle(t, event.VoiceCallReceived{Call: call("CA1", zurichCaller)})
	second := f.handle(t, event.VoiceCallReceived{Call: call("CA1", zurichCaller)})

	assert.Equal(t, first.Document, second.Document)
	assert.Contains(t, second.Document, "<Gather")
}

func TestStoredPreferenceWinsOverPrefix(t *testing.T) {
	f := newTelephonyFixture(t)
	require.NoError(t, f.db.Create(&model.Customer{TenantID: f.tenant.ID, Phone: genevaCaller, PreferredLanguage: "it"}).Error)

	reply := f.handle(t, event.VoiceCallReceived{Call: call("CA2", genevaCaller)})
	assert.Contains(t, reply.Document, `language="it-IT"`)
}

func TestMenuSelectionTransfers(t *testing.T) {
	f := newTelephonyFixture(t)

	reply := f.handle(t, event.VoiceMenuSelection{Call: call("CA1", zurichCaller), Digits: "9"})
	assert.Contains(t, reply.Document, "+41445550001")
	assert.Contains(t, reply.Document, "<Dial")
}

func TestOrderStatusTurn(t *testing.T) {
	f := newTelephonyFixture(t)
	testutil.CreateOrder(t, f.db, &model.Order{TenantID: f.tenant.ID, Reference: "482913", Status: model.OrderStatusConfirmed})

	reply := f.handle(t, event.VoiceOrderStatus{Call: call("CA1", zurichCaller), Digits: "482913#"})
	assert.Contains(t, reply.Document, "4 8 2 9 1 3")
	assert.Contains(t, reply.Document, "bestätigt")
	assert.Contains(t, reply.Document, "<Hangup")

	reply = f.handle(t, event.VoiceOrderStatus{Call: call("CA1", zurichCaller), Digits: "000000"})
	assert.Contains(t, reply.Document, "<Redirect")
	assert.NotContains(t, reply.Document, "<Hangup")
}

func TestRecordedTurnHangsUp(t *testing.T) {
	f := newTelephonyFixture(t)

	reply := f.handle(t, event.VoiceRecordingCompleted{Call: call("CA1", zurichCaller), RecordingSID: "RE1"})
	assert.Contains(t, reply.Document, "<Hangup")
}

func TestTranscriptionCreatesVoiceOrder(t *testing.T) {
	f := newTelephonyFixture(t)

	reply := f.handle(t, event.VoiceTranscriptionReady{
		Call:                call("CA1", zurichCaller),
		TranscriptionSID:    "TR1",
		TranscriptionText:   "Ich möchte eine Pizza Margherita und ein Tiramisu, bitte liefern",
		TranscriptionStatus: "completed",
	})
	assert.Empty(t, reply.Document)

	var order model.Order
	require.NoError(t, f.db.Preload("Items").First(&order).Error)
	assert.Equal(t, model.SourceVoice, order.Source)
	assert.Equal(t, model.FulfillmentDelivery, order.FulfillmentType)
	assert.Len(t, order.Items, 2)
	require.Len(t, f.dispatcher.sent, 1)
}

func TestFailedTranscriptionCreatesNoOrder(t *testing.T) {
	f := newTelephonyFixture(t)

	f.handle(t, event.VoiceTranscriptionReady{
		Call:                call("CA1", zurichCaller),
		TranscriptionSID:    "TR2",
		TranscriptionStatus: "failed",
	})

	assert.Equal(t, int64(0), testutil.Count(t, f.db, &model.Order{}))
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &model.WebhookEvent{}))
	assert.Empty(t, f.dispatcher.sent)
}

func TestCallStatusIsRecorded(t *testing.T) {
	f := newTelephonyFixture(t)

	reply := f.handle(t, event.VoiceCallStatus{Call: event.CallContext{CallSID: "CA1", CallStatus: "completed"}, Duration: "42"})
	assert.Empty(t, reply.Document)
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &model.WebhookEvent{}))
}
