// Package event defines the decoded provider events. Each category is a sealed
// interface so consumers can switch over its variants exhaustively.
package event

import "errors"

var ErrMalformed = errors.New("malformed event payload")

type Kind string

const (
	KindPaymentIntentSucceeded Kind = "payment_intent.succeeded"
	KindPaymentIntentFailed    Kind = "payment_intent.payment_failed"
	KindChargeSucceeded        Kind = "charge.succeeded"
	KindChargeRefunded         Kind = "charge.refunded"

	KindSubscriptionCreated      Kind = "customer.subscription.created"
	KindSubscriptionUpdated      Kind = "customer.subscription.updated"
	KindSubscriptionDeleted      Kind = "customer.subscription.deleted"
	KindSubscriptionTrialWillEnd Kind = "customer.subscription.trial_will_end"

	KindInvoiceCreated          Kind = "invoice.created"
	KindInvoicePaid             Kind = "invoice.paid"
	KindInvoicePaymentSucceeded Kind = "invoice.payment_succeeded"
	KindInvoicePaymentFailed    Kind = "invoice.payment_failed"

	KindCheckoutCompleted Kind = "checkout.session.completed"
	KindCheckoutExpired   Kind = "checkout.session.expired"

	KindCustomerCreated      Kind = "customer.created"
	KindCustomerUpdated      Kind = "customer.updated"
	KindCustomerDeleted      Kind = "customer.deleted"
	KindSetupIntentSucceeded Kind = "setup_intent.succeeded"

	KindSMSReceived             Kind = "sms.received"
	KindWhatsAppReceived        Kind = "whatsapp.received"
	KindVoiceCallReceived       Kind = "voice.call_received"
	KindVoiceMenuSelection      Kind = "voice.menu_selection"
	KindVoiceOrderStatus        Kind = "voice.order_status"
	KindVoiceRecordingCompleted Kind = "voice.recording_completed"
	KindVoiceTranscriptionReady Kind = "voice.transcription_ready"
	KindVoiceCallStatus         Kind = "voice.call_status"
)

type Event interface {
	Kind() Kind
}

// Unknown is any provider event type without a decoder. It is recorded and acknowledged.
type Unknown struct {
	Type string
}

func (u Unknown) Kind() Kind { return Kind(u.Type) }

// Payment events.

type PaymentEvent interface {
	Event
	paymentEvent()
}

type PaymentIntentSucceeded struct{ Intent PaymentIntent }
type PaymentIntentFailed struct{ Intent PaymentIntent }
type ChargeSucceeded struct{ Charge Charge }
type ChargeRefunded struct{ Charge Charge }

func (PaymentIntentSucceeded) Kind() Kind { return KindPaymentIntentSucceeded }
func (PaymentIntentFailed) Kind() Kind    { return KindPaymentIntentFailed }
func (ChargeSucceeded) Kind() Kind        { return KindChargeSucceeded }
func (ChargeRefunded) Kind() Kind         { return KindChargeRefunded }

func (PaymentIntentSucceeded) paymentEvent() {}
func (PaymentIntentFailed) paymentEvent()    {}
func (ChargeSucceeded) paymentEvent()        {}
func (ChargeRefunded) paymentEvent()         {}

// Subscription events.

type SubscriptionEvent interface {
	Event
	subscriptionEvent()
}

type SubscriptionCreated struct{ Subscription Subscription }
type SubscriptionUpdated struct{ Subscription Subscription }
type SubscriptionDeleted struct{ Subscription Subscription }
type SubscriptionTrialWillEnd struct{ Subscription Subscription }

func (SubscriptionCreated) Kind() Kind      { return KindSubscriptionCreated }
func (SubscriptionUpdated) Kind() Kind      { return KindSubscriptionUpdated }
func (SubscriptionDeleted) Kind() Kind      { return KindSubscriptionDeleted }
func (SubscriptionTrialWillEnd) Kind() Kind { return KindSubscriptionTrialWillEnd }

func (SubscriptionCreated) subscriptionEvent()      {}
func (SubscriptionUpdated) subscriptionEvent()      {}
func (SubscriptionDeleted) subscriptionEvent()      {}
func (SubscriptionTrialWillEnd) subscriptionEvent() {}

// Invoice events.

type InvoiceEvent interface {
	Event
	invoiceEvent()
}

type InvoiceCreated struct{ Invoice Invoice }
type InvoicePaid struct{ Invoice Invoice } // also invoice.payment_succeeded
type InvoicePaymentFailed struct{ Invoice Invoice }

func (InvoiceCreated) Kind() Kind       { return KindInvoiceCreated }
func (InvoicePaid) Kind() Kind          { return KindInvoicePaid }
func (InvoicePaymentFailed) Kind() Kind { return KindInvoicePaymentFailed }

func (InvoiceCreated) invoiceEvent()       {}
func (InvoicePaid) invoiceEvent()          {}
func (InvoicePaymentFailed) invoiceEvent() {}

// Checkout events.

type CheckoutEvent interface {
	Event
	checkoutEvent()
}

type CheckoutCompleted struct{ Session CheckoutSession }
type CheckoutExpired struct{ Session CheckoutSession }

func (CheckoutCompleted) Kind() Kind { return KindCheckoutCompleted }
func (CheckoutExpired) Kind() Kind   { return KindCheckoutExpired }

func (CheckoutCompleted) checkoutEvent() {}
func (CheckoutExpired) checkoutEvent()   {}

// Customer events.

type CustomerEvent interface {
	Event
	customerEvent()
}

type CustomerCreated struct{ Customer Customer }
type CustomerUpdated struct{ Customer Customer }
type CustomerDeleted struct{ Customer Customer }
type SetupIntentSucceeded struct{ SetupIntent SetupIntent }

func (CustomerCreated) Kind() Kind      { return KindCustomerCreated }
func (CustomerUpdated) Kind() Kind      { return KindCustomerUpdated }
func (CustomerDeleted) Kind() Kind      { return KindCustomerDeleted }
func (SetupIntentSucceeded) Kind() Kind { return KindSetupIntentSucceeded }

func (CustomerCreated) customerEvent()      {}
func (CustomerUpdated) customerEvent()      {}
func (CustomerDeleted) customerEvent()      {}
func (SetupIntentSucceeded) customerEvent() {}
