package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/staylytics/revpace/internal/tax/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) taxdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*taxdomain.RatePlanTax, error) {
	var tax taxdomain.RatePlanTax
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tax).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &tax, nil
}
