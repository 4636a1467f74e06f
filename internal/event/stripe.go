package event

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/stripe/stripe-go/v82"
)

type decoder func(raw json.RawMessage) (Event, error)

func decodeAs[T any](wrap func(T) Event) decoder {
	return func(raw json.RawMessage) (Event, error) {
		var obj T
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return wrap(obj), nil
	}
}

var stripeDecoders = map[stripe.EventType]decoder{
	"payment_intent.succeeded":      decodeAs(func(o PaymentIntent) Event { return PaymentIntentSucceeded{Intent: o} }),
	"payment_intent.payment_failed": decodeAs(func(o PaymentIntent) Event { return PaymentIntentFailed{Intent: o} }),
	"charge.succeeded":              decodeAs(func(o Charge) Event { return ChargeSucceeded{Charge: o} }),
	"charge.refunded":               decodeAs(func(o Charge) Event { return ChargeRefunded{Charge: o} }),

	"customer.subscription.created":        decodeAs(func(o Subscription) Event { return SubscriptionCreated{Subscription: o} }),
	"customer.subscription.updated":        decodeAs(func(o Subscription) Event { return SubscriptionUpdated{Subscription: o} }),
	"customer.subscription.deleted":        decodeAs(func(o Subscription) Event { return SubscriptionDeleted{Subscription: o} }),
	"customer.subscription.trial_will_end": decodeAs(func(o Subscription) Event { return SubscriptionTrialWillEnd{Subscription: o} }),

	"invoice.created":           decodeAs(func(o Invoice) Event { return InvoiceCreated{Invoice: o} }),
	"invoice.paid":              decodeAs(func(o Invoice) Event { return InvoicePaid{Invoice: o} }),
	"invoice.payment_succeeded": decodeAs(func(o Invoice) Event { return InvoicePaid{Invoice: o} }),
	"invoice.payment_failed":    decodeAs(func(o Invoice) Event { return InvoicePaymentFailed{Invoice: o} }),

	"checkout.session.completed": decodeAs(func(o CheckoutSession) Event { return CheckoutCompleted{Session: o} }),
	"checkout.session.expired":   decodeAs(func(o CheckoutSession) Event { return CheckoutExpired{Session: o} }),

	"customer.created":       decodeAs(func(o Customer) Event { return CustomerCreated{Customer: o} }),
	"customer.updated":       decodeAs(func(o Customer) Event { return CustomerUpdated{Customer: o} }),
	"customer.deleted":       decodeAs(func(o Customer) Event { return CustomerDeleted{Customer: o} }),
	"setup_intent.succeeded": decodeAs(func(o SetupIntent) Event { return SetupIntentSucceeded{SetupIntent: o} }),
}

// DecodeStripe maps a verified envelope onto its variant. Types without a
// decoder become Unknown; a known type whose object does not decode is ErrMalformed.
func DecodeStripe(ev stripe.Event) (Event, error) {
	decode, ok := stripeDecoders[ev.Type]
	if !ok {
		return Unknown{Type: string(ev.Type)}, nil
	}
	if ev.Data == nil || len(ev.Data.Raw) == 0 {
		return nil, fmt.Errorf("%w: %s has no data object", ErrMalformed, ev.Type)
	}
	return decode(ev.Data.Raw)
}

// StripeTypes lists every Stripe event type with a decoder, sorted.
func StripeTypes() []stripe.EventType {
	types := make([]stripe.EventType, 0, len(stripeDecoders))
	for t := range stripeDecoders {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
