// Package testutil holds database fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"restaurant-webhooks/internal/client"
	"restaurant-webhooks/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated, isolated in-memory sqlite database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, client.Migrate(db))
	return db
}

func CreateTenant(t testing.TB, db *gorm.DB, tenant *model.Tenant) *model.Tenant {
	t.Helper()
	if tenant.Name == "" {
		tenant.Name = "Trattoria Test"
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

func CreateMenu(t testing.TB, db *gorm.DB, tenantID string, names ...string) []model.MenuItem {
	t.Helper()
	items := make([]model.MenuItem, 0, len(names))
	for _, name := range names {
		item := model.MenuItem{
			TenantID:  tenantID,
			Name:      name,
			Price:     decimal.RequireFromString("18.50"),
			Currency:  "CHF",
			Available: true,
		}
		require.NoError(t, db.Create(&item).Error)
		items = append(items, item)
	}
	return items
}

func CreateOrder(t testing.TB, db *gorm.DB, order *model.Order) *model.Order {
	t.Helper()
	if order.Source == "" {
		order.Source = model.SourceCheckout
	}
	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = model.PaymentStatusUnpaid
	}
	if order.FulfillmentType == "" {
		order.FulfillmentType = model.FulfillmentPickup
	}
	if order.Currency == "" {
		order.Currency = "CHF"
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func Count(t testing.TB, db *gorm.DB, value interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(value).Count(&n).Error)
	return n
}
