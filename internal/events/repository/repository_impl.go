package repository

import (
	"context"
	"time"

	eventsdomain "github.com/staylytics/revpace/internal/events/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) eventsdomain.Repository {
	return &repository{db: db}
}

func (r *repository) MatchPeriodEvents(ctx context.Context, from, to time.Time) ([]eventsdomain.Event, error) {
	var events []eventsdomain.Event
	err := r.db.WithContext(ctx).
		Where("starts_at < ? AND ends_at >= ?", to, from).
		Order("starts_at ASC").
		Find(&events).Error
	return events, err
}
