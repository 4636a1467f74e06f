package repository

import (
	"context"

	"restaurant-webhooks/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, invoice *model.Invoice) error
	GetByProviderID(ctx context.Context, tx *gorm.DB, providerInvoiceID string) (*model.Invoice, error)
}

type invoiceRepoImpl struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepoImpl{db: db}
}

func (r *invoiceRepoImpl) Upsert(ctx context.Context, tx *gorm.DB, invoice *model.Invoice) error {
	return conn(r.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "provider_invoice_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"provider_subscription_id",
				"amount",
				"currency",
				"status",
				"due_date",
				"paid_at",
				"last_event_id",
				"updated_at",
			}),
		}).
		Create(invoice).Error
}

func (r *invoiceRepoImpl) GetByProviderID(ctx context.Context, tx *gorm.DB, providerInvoiceID string) (*model.Invoice, error) {
	var invoice model.Invoice
	err := conn(r.db, tx).WithContext(ctx).
		Where("provider_invoice_id = ?", providerInvoiceID).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}

	return &invoice, nil
}
