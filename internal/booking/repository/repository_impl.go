package repository

import (
	"context"
	"time"

	bookingdomain "github.com/staylytics/revpace/internal/booking/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) bookingdomain.Repository {
	return &repository{db: db}
}

func (r *repository) ListIntersecting(ctx context.Context, from, to, createdBefore time.Time) ([]bookingdomain.Booking, error) {
	var bookings []bookingdomain.Booking
	err := r.db.WithContext(ctx).
		Preload("Rooms").
		Where("created_at <= ?", createdBefore).
		Where(
			r.db.Where("check_in < ? AND check_out > ?", to, from).
				Or("cancelled_at >= ? AND cancelled_at < ?", from, to),
		).
		Order("created_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
