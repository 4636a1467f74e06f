package model

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	SourceSMS      = "sms"
	SourceVoice    = "voice"
	SourceWhatsApp = "whatsapp"
	SourceCheckout = "checkout"
)

const (
	FulfillmentDelivery = "delivery"
	FulfillmentPickup   = "pickup"
	FulfillmentDineIn   = "dine-in"
)

const (
	OrderStatusPendingConfirmation = "pending_confirmation"
	OrderStatusPending             = "pending"
	OrderStatusConfirmed           = "confirmed"
	OrderStatusReady               = "ready"
	OrderStatusCompleted           = "completed"
	OrderStatusExpired             = "expired"
	OrderStatusCanceled            = "canceled"

	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
	PaymentStatusFailed = "failed"

	RefundStatusRefunded          = "refunded"
	RefundStatusPartiallyRefunded = "partially_refunded"

	CheckoutStatusCompleted = "completed"
	CheckoutStatusExpired   = "expired"
)

type Order struct {
	ID                  string          `gorm:"primaryKey;size:36"`
	TenantID            string          `gorm:"size:36;not null;index:ux_orders_tenant_reference,unique,priority:1"`
	Reference           string          `gorm:"size:6;not null;index:ux_orders_tenant_reference,unique,priority:2"` // spoken/keyed by callers
	CustomerID          *string         `gorm:"size:36;index"`
	CustomerPhone       string          `gorm:"size:32"`
	CustomerEmail       string          `gorm:"size:255"`
	Items               []OrderItem     `gorm:"foreignKey:OrderID"`
	FulfillmentType     string          `gorm:"size:16;not null"` // delivery, pickup, dine-in
	Source              string          `gorm:"size:16;index;not null"`
	Status              string          `gorm:"size:32;index;not null"`
	PaymentStatus       string          `gorm:"size:32;not null"`
	RefundStatus        string          `gorm:"size:32"`
	PaymentError        string          `gorm:"size:512"`
	CheckoutSessionID   string          `gorm:"size:255;index"`
	CheckoutStatus      string          `gorm:"size:32"`
	SpecialInstructions string          `gorm:"type:text"`
	Language            string          `gorm:"size:16"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency            string          `gorm:"size:8;not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   string          `gorm:"size:36;index;not null"`
	ProductID string          `gorm:"size:36;index"` // menu item id
	Name      string          `gorm:"size:255;not null"`
	Quantity  int32           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	CreatedAt time.Time
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	assignID(&o.ID)
	if o.Reference == "" {
		o.Reference = NewReference()
	}
	return nil
}

// NewReference is the six digit code callers key in to query an order. It is
// unique per tenant only through the index; callers retry on collision.
func NewReference() string {
	return fmt.Sprintf("%06d", rand.IntN(1_000_000))
}

// Total sums the line items.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	return total
}
