package repository

import (
	"context"
	"time"

	"restaurant-webhooks/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, customer *model.Customer) error
	FindByProviderID(ctx context.Context, tx *gorm.DB, providerCustomerID string) (*model.Customer, error)
	FindByPhone(ctx context.Context, tx *gorm.DB, tenantID, phone string) (*model.Customer, error)
	SoftDelete(ctx context.Context, tx *gorm.DB, providerCustomerID string) error
	SetDefaultPaymentMethod(ctx context.Context, tx *gorm.DB, providerCustomerID, paymentMethodID string) error
}

type customerRepoImpl struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepoImpl{
		db: db,
	}
}

func (r *customerRepoImpl) Upsert(ctx context.Context, tx *gorm.DB, customer *model.Customer) error {
	return conn(r.db, tx).WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_customer_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"tenant_id":          customer.TenantID,
			"email":              customer.Email,
			"name":               customer.Name,
			"phone":              customer.Phone,
			"preferred_language": customer.PreferredLanguage,
			"updated_at":         time.Now(),
		}),
	}).Create(customer).Error
}

func (r *customerRepoImpl) FindByProviderID(ctx context.Context, tx *gorm.DB, providerCustomerID string) (*model.Customer, error) {
	var customer model.Customer
	err := conn(r.db, tx).WithContext(ctx).
		Where("provider_customer_id = ?", providerCustomerID).
		First(&customer).Error
	if err != nil {
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepoImpl) FindByPhone(ctx context.Context, tx *gorm.DB, tenantID, phone string) (*model.Customer, error) {
	var customer model.Customer
	err := conn(r.db, tx).WithContext(ctx).
		Where("tenant_id = ? AND phone = ?", tenantID, phone).
		Order("updated_at DESC").
		First(&customer).Error
	if err != nil {
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepoImpl) SoftDelete(ctx context.Context, tx *gorm.DB, providerCustomerID string) error {
	result := conn(r.db, tx).WithContext(ctx).
		Where("provider_customer_id = ?", providerCustomerID).
		Delete(&model.Customer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *customerRepoImpl) SetDefaultPaymentMethod(ctx context.Context, tx *gorm.DB, providerCustomerID, paymentMethodID string) error {
	result := conn(r.db, tx).WithContext(ctx).
		Model(&model.Customer{}).
		Where("provider_customer_id = ?", providerCustomerID).
		Updates(map[string]interface{}{
			"default_payment_method": paymentMethodID,
			"updated_at":             time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
