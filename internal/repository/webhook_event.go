package repository

import (
	"context"

	"restaurant-webhooks/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventRepository interface {
	// CreateIfNotExists reports whether the row was inserted; false means the
	// (provider, event id) pair was already recorded.
	CreateIfNotExists(ctx context.Context, tx *gorm.DB, event *model.WebhookEvent) (bool, error)
}

type webhookEventRepoImpl struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepoImpl{db: db}
}

func (r *webhookEventRepoImpl) CreateIfNotExists(ctx context.Context, tx *gorm.DB, event *model.WebhookEvent) (bool, error) {
	result := conn(r.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider"}, {Name: "event_id"}},
			DoNothing: true,
		}).
		Create(event)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
