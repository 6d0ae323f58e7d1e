package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recycling-admin-backend/internal/model"
)

// Subscriptions persists admin browser push subscriptions.
type Subscriptions interface {
	Put(ctx context.Context, sub model.PushSubscription) error
	Get(ctx context.Context, endpoint string) (model.PushSubscription, error)
	Delete(ctx context.Context, endpoint string) error
	All(ctx context.Context) ([]model.PushSubscription, error)
}

type gormSubscriptions struct {
	db *gorm.DB
}

// NewGormSubscriptions creates a new GORM-backed subscription store.
func NewGormSubscriptions(db *gorm.DB) Subscriptions {
	return &gormSubscriptions{db: db}
}

// Put creates the subscription or replaces the keys of an existing endpoint.
func (s *gormSubscriptions) Put(ctx context.Context, sub model.PushSubscription) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
	}).Create(&sub).Error; err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}

func (s *gormSubscriptions) Get(ctx context.Context, endpoint string) (model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sub, ErrNotFound
	}
	if err != nil {
		return sub, fmt.Errorf("failed to fetch subscription: %w", err)
	}
	return sub, nil
}

func (s *gormSubscriptions) Delete(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error; err != nil {
		return fmt.Errorf("failed to delete subscription %s: %w", endpoint, err)
	}
	return nil
}

func (s *gormSubscriptions) All(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}
