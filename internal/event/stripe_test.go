package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

func envelope(t string, object string) stripe.Event {
	return stripe.Event{
		ID:   "evt_1",
		Type: stripe.EventType(t),
		Data: &stripe.EventData{Raw: json.RawMessage(object)},
	}
}

func TestDecodeStripeCoversEveryType(t *testing.T) {
	types := StripeTypes()
	require.Len(t, types, 18)

	for _, typ := range types {
		ev, err := DecodeStripe(envelope(string(typ), `{"id":"obj_1","metadata":{}}`))
		require.NoError(t, err, typ)
		assert.NotEqual(t, Unknown{Type: string(typ)}, ev, typ)

		switch ev.(type) {
		case PaymentEvent, SubscriptionEvent, InvoiceEvent, CheckoutEvent, CustomerEvent:
		default:
			t.Fatalf("%s decoded to %T outside every category", typ, ev)
		}
	}
}

func TestDecodeStripeKinds(t *testing.T) {
	ev, err := DecodeStripe(envelope("invoice.payment_succeeded", `{"id":"in_1"}`))
	require.NoError(t, err)
	assert.Equal(t, KindInvoicePaid, ev.Kind())

	ev, err = DecodeStripe(envelope("charge.refunded", `{"id":"ch_1","amount":5000,"amount_refunded":5000,"payment_intent":"pi_1","metadata":{"order_id":"o1","tenant_id":"t1"}}`))
	require.NoError(t, err)
	refund, ok := ev.(ChargeRefunded)
	require.True(t, ok)
	assert.Equal(t, int64(5000), refund.Charge.AmountRefunded)
	assert.Equal(t, "pi_1", refund.Charge.PaymentIntent.String())
	assert.Equal(t, "o1", refund.Charge.Metadata.OrderID())
	assert.Equal(t, "t1", refund.Charge.Metadata.TenantID())
}

func TestDecodeStripeUnknownType(t *testing.T) {
	ev, err := DecodeStripe(envelope("product.created", `{"id":"prod_1"}`))
	require.NoError(t, err)
	assert.Equal(t, Unknown{Type: "product.created"}, ev)
	assert.Equal(t, Kind("product.created"), ev.Kind())
}

func TestDecodeStripeMalformed(t *testing.T) {
	_, err := DecodeStripe(envelope("payment_intent.succeeded", `{"id":123}`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeStripe(stripe.Event{ID: "evt_1", Type: "payment_intent.succeeded"})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestExpandableID(t *testing.T) {
	var v struct {
		A ExpandableID `json:"a"`
		B ExpandableID `json:"b"`
		C ExpandableID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"cus_1","b":{"id":"cus_2","object":"customer"},"c":null}`), &v))
	assert.Equal(t, ExpandableID("cus_1"), v.A)
	assert.Equal(t, ExpandableID("cus_2"), v.B)
	assert.Equal(t, ExpandableID(""), v.C)
}

func TestSubscriptionPeriodWindowFallsBackToItems(t *testing.T) {
	var sub Subscription
	require.NoError(t, json.Unmarshal([]byte(`{"id":"sub_1","items":{"data":[{"id":"si_1","current_period_start":100,"current_period_end":200}]}}`), &sub))

	start, end := sub.PeriodWindow()
	assert.Equal(t, int64(100), start)
	assert.Equal(t, int64(200), end)

	sub.CurrentPeriodStart, sub.CurrentPeriodEnd = 10, 20
	start, end = sub.PeriodWindow()
	assert.Equal(t, int64(10), start)
	assert.Equal(t, int64(20), end)
}

func TestInvoiceParentSubscriptionDetails(t *testing.T) {
	var inv Invoice
	require.NoError(t, json.Unmarshal([]byte(`{"id":"in_1","parent":{"subscription_details":{"subscription":"sub_9","metadata":{"tenantId":"t9"}}}}`), &inv))

	assert.Equal(t, "sub_9", inv.SubscriptionID())
	assert.Equal(t, "t9", inv.TenantID())
}

func TestCustomerPreferredLanguage(t *testing.T) {
	assert.Equal(t, "it", Customer{Metadata: Metadata{"language": "it"}, PreferredLocales: []string{"fr-CH"}}.PreferredLanguage())
	assert.Equal(t, "fr-CH", Customer{PreferredLocales: []string{"fr-CH"}}.PreferredLanguage())
	assert.Equal(t, "", Customer{}.PreferredLanguage())
}

func TestUnix(t *testing.T) {
	assert.Nil(t, Unix(0))
	require.NotNil(t, Unix(1700000000))
	assert.Equal(t, int64(1700000000), Unix(1700000000).Unix())
}
