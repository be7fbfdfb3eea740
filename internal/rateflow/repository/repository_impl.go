package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	rateflowdomain "github.com/staylytics/revpace/internal/rateflow/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) rateflowdomain.Repository {
	return &repository{db: db}
}

func (r *repository) MainRatePlan(ctx context.Context) (*rateflowdomain.RatePlan, error) {
	var plan rateflowdomain.RatePlan
	err := r.db.WithContext(ctx).
		Where("main = ?", true).
		Order("id ASC").
		First(&plan).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repository) ListRatePlans(ctx context.Context) (map[snowflake.ID]rateflowdomain.RatePlan, error) {
	var rows []rateflowdomain.RatePlan
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	plans := make(map[snowflake.ID]rateflowdomain.RatePlan, len(rows))
	for _, row := range rows {
		plans[row.ID] = row
	}
	return plans, nil
}

func (r *repository) ListChannels(ctx context.Context) (map[snowflake.ID]rateflowdomain.Channel, error) {
	var rows []rateflowdomain.Channel
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	channels := make(map[snowflake.ID]rateflowdomain.Channel, len(rows))
	for _, row := range rows {
		channels[row.ID] = row
	}
	return channels, nil
}

func (r *repository) ListWebsiteRecords(ctx context.Context, cutoff, from, to time.Time, ratePlanID snowflake.ID) ([]rateflowdomain.FlowRecord, error) {
	var records []rateflowdomain.FlowRecord
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", rateflowdomain.ChannelWebsite).
		Where("rate_plan_id = ?", ratePlanID).
		Where("created_on <= ?", cutoff).
		Where("day_from < ? AND day_to >= ?", to, from).
		Order("created_on DESC").
		Order("day_from ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) ListChannelRecords(ctx context.Context, from, to time.Time, filter rateflowdomain.ChannelFilter) ([]rateflowdomain.FlowRecord, error) {
	q := r.db.WithContext(ctx).
		Where("channel_id <> ?", rateflowdomain.ChannelWebsite).
		Where("day_from < ? AND day_to >= ?", to, from)

	if filter.ListingID != 0 {
		q = q.Where("listing_id = ?", filter.ListingID)
	}
	if filter.RatePlanID != 0 {
		q = q.Where("rate_plan_id = ?", filter.RatePlanID)
	}
	if filter.ChannelID != 0 {
		q = q.Where("channel_id = ?", filter.ChannelID)
	}

	var records []rateflowdomain.FlowRecord
	err := q.Order("created_on DESC").
		Order("day_from ASC").
		Find(&records).Error
	return records, err
}
