package repository

import (
	"context"
	"testing"

	"restaurant-webhooks/internal/model"
	"restaurant-webhooks/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOrderCreateWithItemsAndFind(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	tenant := testutil.CreateTenant(t, db, &model.Tenant{PhoneNumber: "+41445550000"})

	order := &model.Order{
		TenantID:        tenant.ID,
		Reference:       "123456",
		CustomerPhone:   "+41791234567",
		FulfillmentType: model.FulfillmentPickup,
		Source:          model.SourceSMS,
		Status:          model.OrderStatusPendingConfirmation,
		PaymentStatus:   model.PaymentStatusUnpaid,
		Currency:        "CHF",
		Items: []model.OrderItem{
			{Name: "Pizza Margherita", Quantity: 1, UnitPrice: decimal.RequireFromString("18.50")},
		},
	}
	require.NoError(t, repo.Create(ctx, nil, order))
	require.NotEmpty(t, order.ID)

	found, err := repo.FindByID(ctx, nil, tenant.ID, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Pizza Margherita", found.Items[0].Name)

	byRef, err := repo.FindByReference(ctx, tenant.ID, "123456")
	require.NoError(t, err)
	assert.Equal(t, order.ID, byRef.ID)

	_, err = repo.FindByID(ctx, nil, "other-tenant", order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderUpdateMissingReturnsNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOrderRepository(db)

	err := repo.Update(context.Background(), nil, "t1", "missing", map[string]interface{}{
		"payment_status": model.PaymentStatusPaid,
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderUpdate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	order := testutil.CreateOrder(t, db, &model.Order{TenantID: "t1"})

	require.NoError(t, repo.Update(ctx, nil, "t1", order.ID, map[string]interface{}{
		"payment_status": model.PaymentStatusPaid,
	}))

	found, err := repo.FindByID(ctx, nil, "t1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, found.PaymentStatus)
}

func TestOrderReferenceUniquePerTenant(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	testutil.CreateOrder(t, db, &model.Order{TenantID: "t1", Reference: "123456"})

	err := repo.Create(ctx, nil, &model.Order{
		TenantID: "t1", Reference: "123456", Source: model.SourceSMS, Status: model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusUnpaid, FulfillmentType: model.FulfillmentPickup, Currency: "CHF",
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	other := testutil.CreateOrder(t, db, &model.Order{TenantID: "t2", Reference: "123456"})
	assert.NotEmpty(t, other.ID)
}

func TestOrderWithoutReferenceGetsOne(t *testing.T) {
	db := testutil.NewDB(t)
	order := testutil.CreateOrder(t, db, &model.Order{TenantID: "t1"})

	assert.Len(t, order.Reference, 6)
}
