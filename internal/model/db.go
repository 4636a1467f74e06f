package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ProviderStripe = "stripe"
	ProviderTwilio = "twilio"
)

// WebhookEvent is the audit and idempotency record of one accepted provider callback.
type WebhookEvent struct {
	ID              uint      `gorm:"primaryKey"`
	Provider        string    `gorm:"size:16;not null;index:ux_webhook_events_provider_event,unique,priority:1"`
	EventID         string    `gorm:"size:255;not null;index:ux_webhook_events_provider_event,unique,priority:2"`
	EventType       string    `gorm:"size:64;index;not null"`
	Livemode        bool      `gorm:"not null"`
	Environment     string    `gorm:"size:32"`
	ReceivedAt      time.Time `gorm:"not null"`
	RawPayload      string    `gorm:"type:text"`
	ProcessedAt     *time.Time
	ProcessingError string `gorm:"type:text"` // set when the event was rejected as permanently unprocessable
	CreatedAt       time.Time
}

type Tenant struct {
	ID                  string `gorm:"primaryKey;size:36"`
	Name                string `gorm:"size:255;not null"`
	Email               string `gorm:"size:255"`
	PhoneNumber         string `gorm:"size:32;uniqueIndex"` // provider number callers dial
	TransferNumber      string `gorm:"size:32"`             // staff line for IVR option 9
	Plan                string `gorm:"size:64"`
	SubscriptionStatus  string `gorm:"size:32"`
	SubscriptionEndedAt *time.Time
	ProviderCustomerID  string `gorm:"size:255;index"`
	OpeningHours        string `gorm:"size:512"`
	MenuURL             string `gorm:"size:512"`
	Address             string `gorm:"size:512"`
	Currency            string `gorm:"size:8;not null;default:CHF"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Customer struct {
	ID                   string  `gorm:"primaryKey;size:36"`
	TenantID             string  `gorm:"size:36;not null;index:ix_customers_tenant_phone,priority:1"`
	Phone                string  `gorm:"size:32;index:ix_customers_tenant_phone,priority:2"`
	Email                string  `gorm:"size:255"`
	Name                 string  `gorm:"size:255"`
	PreferredLanguage    string  `gorm:"size:16"`
	ProviderCustomerID   *string `gorm:"size:255;uniqueIndex"`
	DefaultPaymentMethod string  `gorm:"size:255"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DeletedAt            gorm.DeletedAt `gorm:"index"`
}

type MenuItem struct {
	ID        string          `gorm:"primaryKey;size:36"`
	TenantID  string          `gorm:"size:36;index;not null"`
	Name      string          `gorm:"size:255;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency  string          `gorm:"size:8;not null"`
	Available bool            `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Payment struct {
	ID                string          `gorm:"primaryKey;size:36"`
	TenantID          string          `gorm:"size:36;index;not null"`
	OrderID           string          `gorm:"size:36;index;not null"`
	ProviderPaymentID string          `gorm:"size:255;uniqueIndex;not null"` // payment intent id
	Amount            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency          string          `gorm:"size:8;not null"`
	Status            string          `gorm:"size:32;not null"`
	Method            string          `gorm:"size:64"`
	EventID           string          `gorm:"size:255;index"`
	CreatedAt         time.Time
}

type Refund struct {
	ID               string          `gorm:"primaryKey;size:36"`
	TenantID         string          `gorm:"size:36;index;not null"`
	OrderID          string          `gorm:"size:36;index;not null"`
	ProviderChargeID string          `gorm:"size:255;index;not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency         string          `gorm:"size:8;not null"`
	EventID          string          `gorm:"size:255;uniqueIndex;not null"`
	CreatedAt        time.Time
}

type SubscriptionItem struct {
	ID        string `json:"id"`
	PriceID   string `json:"priceId"`
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

type Subscription struct {
	ID                     string                                `gorm:"primaryKey;size:36"`
	TenantID               string                                `gorm:"size:36;index;not null"`
	ProviderSubscriptionID string                                `gorm:"size:255;uniqueIndex;not null"`
	ProviderCustomerID     string                                `gorm:"size:255;index"`
	Status                 string                                `gorm:"size:32;not null"` // provider status: trialing, active, past_due, canceled...
	Items                  datatypes.JSONSlice[SubscriptionItem] `gorm:"type:json"`
	CurrentPeriodStart     *time.Time
	CurrentPeriodEnd       *time.Time
	CancelAtPeriodEnd      bool `gorm:"not null"`
	TrialEnd               *time.Time
	CanceledAt             *time.Time
	LastEventID            string `gorm:"size:255"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

type Invoice struct {
	ID                     string          `gorm:"primaryKey;size:36"`
	TenantID               string          `gorm:"size:36;index;not null"`
	ProviderInvoiceID      string          `gorm:"size:255;uniqueIndex;not null"`
	ProviderSubscriptionID string          `gorm:"size:255;index"`
	Amount                 decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency               string          `gorm:"size:8;not null"`
	Status                 string          `gorm:"size:32;not null"` // open, paid, payment_failed
	DueDate                *time.Time
	PaidAt                 *time.Time
	LastEventID            string `gorm:"size:255"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

const (
	InvoiceStatusOpen          = "open"
	InvoiceStatusPaid          = "paid"
	InvoiceStatusPaymentFailed = "payment_failed"

	SubscriptionStatusCanceled = "canceled"
)

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (t *Tenant) BeforeCreate(*gorm.DB) error       { assignID(&t.ID); return nil }
func (c *Customer) BeforeCreate(*gorm.DB) error     { assignID(&c.ID); return nil }
func (m *MenuItem) BeforeCreate(*gorm.DB) error     { assignID(&m.ID); return nil }
func (p *Payment) BeforeCreate(*gorm.DB) error      { assignID(&p.ID); return nil }
func (r *Refund) BeforeCreate(*gorm.DB) error       { assignID(&r.ID); return nil }
func (s *Subscription) BeforeCreate(*gorm.DB) error { assignID(&s.ID); return nil }
func (i *Invoice) BeforeCreate(*gorm.DB) error      { assignID(&i.ID); return nil }
