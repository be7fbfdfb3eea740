package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/staylytics/revpace/internal/tax/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type repoStub struct {
	taxes map[snowflake.ID]*taxdomain.RatePlanTax
	err   error
	calls int
}

func (r *repoStub) Get(_ context.Context, id snowflake.ID) (*taxdomain.RatePlanTax, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.taxes[id], nil
}

func newTaxService(repo taxdomain.Repository) taxdomain.Service {
	return NewService(ServiceParam{Log: zap.NewNop(), Repo: repo})
}

func TestTaxService_Conversions(t *testing.T) {
	svc := newTaxService(&repoStub{taxes: map[snowflake.ID]*taxdomain.RatePlanTax{
		3: {ID: 3, Name: "VAT", Percent: 10},
	}})
	ctx := context.Background()

	assert.InDelta(t, 100, svc.NetOfTax(ctx, 110, 3), 1e-9)
	assert.InDelta(t, 110, svc.ApplyTax(ctx, 100, 3), 1e-9)
}

func TestTaxService_UnknownTaxIsPassthrough(t *testing.T) {
	svc := newTaxService(&repoStub{})
	ctx := context.Background()

	assert.Equal(t, 110.0, svc.NetOfTax(ctx, 110, 99))
	assert.Equal(t, 110.0, svc.ApplyTax(ctx, 110, 99))
	assert.Equal(t, 110.0, svc.NetOfTax(ctx, 110, 0))
}

func TestTaxService_LookupErrorIsPassthrough(t *testing.T) {
	svc := newTaxService(&repoStub{err: errors.New("db down")})
	assert.Equal(t, 110.0, svc.NetOfTax(context.Background(), 110, 3))
}

func TestTaxService_CachesPercent(t *testing.T) {
	repo := &repoStub{taxes: map[snowflake.ID]*taxdomain.RatePlanTax{
		3: {ID: 3, Percent: 10},
	}}
	svc := newTaxService(repo)
	ctx := context.Background()

	svc.NetOfTax(ctx, 110, 3)
	svc.ApplyTax(ctx, 100, 3)
	svc.NetOfTax(ctx, 220, 3)
	assert.Equal(t, 1, repo.calls)
}
