package repository

import (
	"context"
	"time"

	"restaurant-webhooks/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, tx *gorm.DB, tenantID, orderID string) (*model.Order, error)
	FindByReference(ctx context.Context, tenantID, reference string) (*model.Order, error)
	Update(ctx context.Context, tx *gorm.DB, tenantID, orderID string, updates map[string]interface{}) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

// Create inserts the order together with its items.
func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return conn(r.db, tx).WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, tenantID, orderID string) (*model.Order, error) {
	var order model.Order
	err := conn(r.db, tx).WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// FindByReference relies on references being unique per tenant.
func (r *orderRepoImpl) FindByReference(ctx context.Context, tenantID, reference string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND reference = ?", tenantID, reference).
		First(&order).Error
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) Update(ctx context.Context, tx *gorm.DB, tenantID, orderID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result := conn(r.db, tx).WithContext(ctx).
		Model(&model.Order{}).
		Where("tenant_id = ? AND id = ?", tenantID, orderID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
