package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	listingdomain "github.com/staylytics/revpace/internal/listing/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) listingdomain.Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) (map[snowflake.ID]listingdomain.Listing, error) {
	var rows []listingdomain.Listing
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	listings := make(map[snowflake.ID]listingdomain.Listing, len(rows))
	for _, row := range rows {
		if row.Slug == "" {
			row.Slug = slug.Make(row.Name)
		}
		listings[row.ID] = row
	}
	return listings, nil
}

func (r *repository) TotalInventoryCount(ctx context.Context) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&listingdomain.Listing{}).
		Select("COALESCE(SUM(units), 0)").
		Scan(&total).Error
	return int(total), err
}
