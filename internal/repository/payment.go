package repository

import (
	"context"

	"restaurant-webhooks/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	// CreateIfNotExists keys on the provider payment id, so payment and charge
	// events for the same intent record one Payment.
	CreateIfNotExists(ctx context.Context, tx *gorm.DB, payment *model.Payment) (bool, error)
	GetByProviderID(ctx context.Context, tx *gorm.DB, providerPaymentID string) (*model.Payment, error)
	CreateRefund(ctx context.Context, tx *gorm.DB, refund *model.Refund) error
	ListRefunds(ctx context.Context, tx *gorm.DB, orderID string) ([]*model.Refund, error)
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) CreateIfNotExists(ctx context.Context, tx *gorm.DB, payment *model.Payment) (bool, error) {
	result := conn(r.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_payment_id"}},
			DoNothing: true,
		}).
		Create(payment)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *paymentRepoImpl) GetByProviderID(ctx context.Context, tx *gorm.DB, providerPaymentID string) (*model.Payment, error) {
	var payment model.Payment
	err := conn(r.db, tx).WithContext(ctx).
		Where("provider_payment_id = ?", providerPaymentID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepoImpl) CreateRefund(ctx context.Context, tx *gorm.DB, refund *model.Refund) error {
	return conn(r.db, tx).WithContext(ctx).Create(refund).Error
}

func (r *paymentRepoImpl) ListRefunds(ctx context.Context, tx *gorm.DB, orderID string) ([]*model.Refund, error) {
	var refunds []*model.Refund
	err := conn(r.db, tx).WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at").
		Find(&refunds).Error
	if err != nil {
		return nil, err
	}

	return refunds, nil
}
