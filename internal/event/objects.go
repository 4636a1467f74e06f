package event

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// The Stripe object shapes below carry only the fields the state machine reads.
// Decoding them locally keeps the handlers independent of SDK struct changes
// between API versions.

// ExpandableID accepts either an id string or an expanded object with an id.
type ExpandableID string

func (e *ExpandableID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*e = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = ExpandableID(s)
		return nil
	}

	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*e = ExpandableID(obj.ID)
	return nil
}

func (e ExpandableID) String() string {
	return string(e)
}

// Metadata is the free-form key/value map merchants attach to Stripe objects.
// Both camelCase and snake_case keys are accepted.
type Metadata map[string]string

func (m Metadata) first(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(m[key]); v != "" {
			return v
		}
	}
	return ""
}

func (m Metadata) TenantID() string { return m.first("tenantId", "tenant_id") }
func (m Metadata) OrderID() string  { return m.first("orderId", "order_id") }
func (m Metadata) Type() string     { return m.first("type") }
func (m Metadata) Plan() string     { return m.first("plan") }

// Unix converts a Stripe timestamp; zero stays nil.
func Unix(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}

type PaymentError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PaymentIntent struct {
	ID                 string        `json:"id"`
	Amount             int64         `json:"amount"`
	AmountReceived     int64         `json:"amount_received"`
	Currency           string        `json:"currency"`
	Status             string        `json:"status"`
	Customer           ExpandableID  `json:"customer"`
	ReceiptEmail       string        `json:"receipt_email"`
	PaymentMethodTypes []string      `json:"payment_method_types"`
	LastPaymentError   *PaymentError `json:"last_payment_error"`
	Metadata           Metadata      `json:"metadata"`
}

func (p PaymentIntent) Method() string {
	if len(p.PaymentMethodTypes) > 0 {
		return p.PaymentMethodTypes[0]
	}
	return ""
}

func (p PaymentIntent) FailureMessage() string {
	if p.LastPaymentError == nil {
		return ""
	}
	if p.LastPaymentError.Message != "" {
		return p.LastPaymentError.Message
	}
	return p.LastPaymentError.Code
}

type Charge struct {
	ID                   string       `json:"id"`
	Amount               int64        `json:"amount"`
	AmountRefunded       int64        `json:"amount_refunded"`
	Currency             string       `json:"currency"`
	Refunded             bool         `json:"refunded"`
	PaymentIntent        ExpandableID `json:"payment_intent"`
	ReceiptEmail         string       `json:"receipt_email"`
	Metadata             Metadata     `json:"metadata"`
	PaymentMethodDetails *struct {
		Type string `json:"type"`
	} `json:"payment_method_details"`
}

func (c Charge) Method() string {
	if c.PaymentMethodDetails == nil {
		return ""
	}
	return c.PaymentMethodDetails.Type
}

type Price struct {
	ID      string       `json:"id"`
	Product ExpandableID `json:"product"`
}

type SubscriptionItem struct {
	ID                 string `json:"id"`
	Quantity           int64  `json:"quantity"`
	Price              Price  `json:"price"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
}

type Subscription struct {
	ID                 string       `json:"id"`
	Customer           ExpandableID `json:"customer"`
	Status             string       `json:"status"`
	CancelAtPeriodEnd  bool         `json:"cancel_at_period_end"`
	CurrentPeriodStart int64        `json:"current_period_start"`
	CurrentPeriodEnd   int64        `json:"current_period_end"`
	TrialEnd           int64        `json:"trial_end"`
	CanceledAt         int64        `json:"canceled_at"`
	EndedAt            int64        `json:"ended_at"`
	Metadata           Metadata     `json:"metadata"`
	Items              struct {
		Data []SubscriptionItem `json:"data"`
	} `json:"items"`
}

// PeriodWindow falls back to the first item, where newer API versions report
// the billing period.
func (s Subscription) PeriodWindow() (start, end int64) {
	start, end = s.CurrentPeriodStart, s.CurrentPeriodEnd
	if (start == 0 || end == 0) && len(s.Items.Data) > 0 {
		if start == 0 {
			start = s.Items.Data[0].CurrentPeriodStart
		}
		if end == 0 {
			end = s.Items.Data[0].CurrentPeriodEnd
		}
	}
	return start, end
}

type Invoice struct {
	ID                string       `json:"id"`
	Customer          ExpandableID `json:"customer"`
	CustomerEmail     string       `json:"customer_email"`
	Subscription      ExpandableID `json:"subscription"`
	AmountDue         int64        `json:"amount_due"`
	AmountPaid        int64        `json:"amount_paid"`
	Currency          string       `json:"currency"`
	Status            string       `json:"status"`
	DueDate           int64        `json:"due_date"`
	Metadata          Metadata     `json:"metadata"`
	StatusTransitions struct {
		PaidAt int64 `json:"paid_at"`
	} `json:"status_transitions"`
	Parent *struct {
		SubscriptionDetails *struct {
			Subscription ExpandableID `json:"subscription"`
			Metadata     Metadata     `json:"metadata"`
		} `json:"subscription_details"`
	} `json:"parent"`
}

// SubscriptionID reads the top-level field or, on newer API versions, the parent details.
func (i Invoice) SubscriptionID() string {
	if i.Subscription != "" {
		return i.Subscription.String()
	}
	if i.Parent != nil && i.Parent.SubscriptionDetails != nil {
		return i.Parent.SubscriptionDetails.Subscription.String()
	}
	return ""
}

func (i Invoice) TenantID() string {
	if id := i.Metadata.TenantID(); id != "" {
		return id
	}
	if i.Parent != nil && i.Parent.SubscriptionDetails != nil {
		return i.Parent.SubscriptionDetails.Metadata.TenantID()
	}
	return ""
}

type CheckoutSession struct {
	ID                string       `json:"id"`
	Mode              string       `json:"mode"`
	Status            string       `json:"status"`
	PaymentStatus     string       `json:"payment_status"`
	PaymentIntent     ExpandableID `json:"payment_intent"`
	Subscription      ExpandableID `json:"subscription"`
	Customer          ExpandableID `json:"customer"`
	ClientReferenceID string       `json:"client_reference_id"`
	AmountTotal       int64        `json:"amount_total"`
	Currency          string       `json:"currency"`
	Metadata          Metadata     `json:"metadata"`
	CustomerDetails   *struct {
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"customer_details"`
}

func (s CheckoutSession) CustomerEmail() string {
	if s.CustomerDetails == nil {
		return ""
	}
	return s.CustomerDetails.Email
}

type Customer struct {
	ID               string   `json:"id"`
	Email            string   `json:"email"`
	Name             string   `json:"name"`
	Phone            string   `json:"phone"`
	PreferredLocales []string `json:"preferred_locales"`
	Metadata         Metadata `json:"metadata"`
}

// PreferredLanguage prefers an explicit metadata value over the Stripe locales.
func (c Customer) PreferredLanguage() string {
	if l := c.Metadata.first("language", "preferredLanguage", "preferred_language"); l != "" {
		return l
	}
	if len(c.PreferredLocales) > 0 {
		return c.PreferredLocales[0]
	}
	return ""
}

type SetupIntent struct {
	ID            string       `json:"id"`
	Customer      ExpandableID `json:"customer"`
	PaymentMethod ExpandableID `json:"payment_method"`
	Status        string       `json:"status"`
	Metadata      Metadata     `json:"metadata"`
}
