package service

import (
	"context"
	"sync"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/staylytics/revpace/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log  *zap.Logger
	repo taxdomain.Repository

	mu    sync.Mutex
	cache map[snowflake.ID]float64
}

type ServiceParam struct {
	fx.In

	Log  *zap.Logger
	Repo taxdomain.Repository
}

func NewService(p ServiceParam) taxdomain.Service {
	return &Service{
		log:   p.Log.Named("tax.service"),
		repo:  p.Repo,
		cache: make(map[snowflake.ID]float64),
	}
}

func (s *Service) NetOfTax(ctx context.Context, amount float64, taxID snowflake.ID) float64 {
	percent := s.percent(ctx, taxID)
	if percent <= 0 {
		return amount
	}
	return amount / (1 + percent/100)
}

func (s *Service) ApplyTax(ctx context.Context, amount float64, taxID snowflake.ID) float64 {
	percent := s.percent(ctx, taxID)
	if percent <= 0 {
		return amount
	}
	return amount * (1 + percent/100)
}

func (s *Service) percent(ctx context.Context, taxID snowflake.ID) float64 {
	if taxID == 0 {
		return 0
	}

	s.mu.Lock()
	percent, ok := s.cache[taxID]
	s.mu.Unlock()
	if ok {
		return percent
	}

	tax, err := s.repo.Get(ctx, taxID)
	if err != nil {
		s.log.Warn("tax lookup failed, treating as untaxed", zap.Int64("tax_id", int64(taxID)), zap.Error(err))
		return 0
	}
	if tax == nil {
		percent = 0
	} else {
		percent = tax.Percent
	}

	s.mu.Lock()
	s.cache[taxID] = percent
	s.mu.Unlock()
	return percent
}
