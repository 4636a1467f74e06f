package repository

import (
	"context"
	"time"

	"restaurant-webhooks/internal/model"

	"gorm.io/gorm"
)

type TenantRepository interface {
	Get(ctx context.Context, tx *gorm.DB, tenantID string) (*model.Tenant, error)
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (*model.Tenant, error)
	Update(ctx context.Context, tx *gorm.DB, tenantID string, updates map[string]interface{}) error
}

type tenantRepoImpl struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepoImpl{
		db: db,
	}
}

func (r *tenantRepoImpl) Get(ctx context.Context, tx *gorm.DB, tenantID string) (*model.Tenant, error) {
	var tenant model.Tenant
	err := conn(r.db, tx).WithContext(ctx).
		Where("id = ?", tenantID).
		First(&tenant).Error
	if err != nil {
		return nil, err
	}

	return &tenant, nil
}

// FindByPhoneNumber resolves the tenant owning the dialed provider number.
func (r *tenantRepoImpl) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*model.Tenant, error) {
	var tenant model.Tenant
	err := r.db.WithContext(ctx).
		Where("phone_number = ?", phoneNumber).
		First(&tenant).Error
	if err != nil {
		return nil, err
	}

	return &tenant, nil
}

func (r *tenantRepoImpl) Update(ctx context.Context, tx *gorm.DB, tenantID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result := conn(r.db, tx).WithContext(ctx).
		Model(&model.Tenant{}).
		Where("id = ?", tenantID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
