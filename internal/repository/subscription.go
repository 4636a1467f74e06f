package repository

import (
	"context"
	"time"

	"restaurant-webhooks/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, sub *model.Subscription) error
	GetByProviderID(ctx context.Context, tx *gorm.DB, providerSubscriptionID string) (*model.Subscription, error)
	Update(ctx context.Context, tx *gorm.DB, providerSubscriptionID string, updates map[string]interface{}) error
}

type subscriptionRepoImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepoImpl{
		db: db,
	}
}

func (r *subscriptionRepoImpl) Upsert(ctx context.Context, tx *gorm.DB, sub *model.Subscription) error {
	return conn(r.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "provider_subscription_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"tenant_id",
				"provider_customer_id",
				"status",
				"items",
				"current_period_start",
				"current_period_end",
				"cancel_at_period_end",
				"trial_end",
				"canceled_at",
				"last_event_id",
				"updated_at",
			}),
		}).
		Create(sub).Error
}

func (r *subscriptionRepoImpl) GetByProviderID(ctx context.Context, tx *gorm.DB, providerSubscriptionID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := conn(r.db, tx).WithContext(ctx).
		Where("provider_subscription_id = ?", providerSubscriptionID).
		First(&sub).Error
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func (r *subscriptionRepoImpl) Update(ctx context.Context, tx *gorm.DB, providerSubscriptionID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result := conn(r.db, tx).WithContext(ctx).
		Model(&model.Subscription{}).
		Where("provider_subscription_id = ?", providerSubscriptionID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
