package commands_test

import (
	"context"
	"time"

	"pricing/internal/core/application/usecases/commands"
	"pricing/internal/core/domain/model/demand"
	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/core/domain/model/tier"
	"pricing/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockTierRepository struct{ mock.Mock }

func (m *MockTierRepository) ListActive(ctx context.Context) ([]*tier.Tier, error) {
	args := m.Called(ctx)
	tiers, _ := args.Get(0).([]*tier.Tier)
	return tiers, args.Error(1)
}

func (m *MockTierRepository) AddIfAbsent(ctx context.Context, t *tier.Tier) (bool, error) {
	args := m.Called(ctx, t)
	return args.Bool(0), args.Error(1)
}

type MockTierUoW struct{ mock.Mock }

func (m *MockTierUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockTierUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockTierUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTierUoW) TierRepository() ports.TierRepository {
	args := m.Called()
	return args.Get(0).(ports.TierRepository)
}

type MockTierUoWFactory struct{ mock.Mock }

func (m *MockTierUoWFactory) Create() commands.TierUoW {
	args := m.Called()
	return args.Get(0).(commands.TierUoW)
}

type MockDemandRecordRepository struct{ mock.Mock }

func (m *MockDemandRecordRepository) Get(ctx context.Context, bucket string, slot time.Time) (*demand.Record, error) {
	args := m.Called(ctx, bucket, slot)
	rec, _ := args.Get(0).(*demand.Record)
	return rec, args.Error(1)
}

func (m *MockDemandRecordRepository) GetMany(
	ctx context.Context,
	buckets []string,
	slot time.Time,
) ([]*demand.Record, error) {
	args := m.Called(ctx, buckets, slot)
	recs, _ := args.Get(0).([]*demand.Record)
	return recs, args.Error(1)
}

func (m *MockDemandRecordRepository) ListSince(
	ctx context.Context,
	bucket string,
	from time.Time,
) ([]*demand.Record, error) {
	args := m.Called(ctx, bucket, from)
	recs, _ := args.Get(0).([]*demand.Record)
	return recs, args.Error(1)
}

func (m *MockDemandRecordRepository) Upsert(ctx context.Context, rec *demand.Record) (*demand.Record, error) {
	args := m.Called(ctx, rec)
	if fn, ok := args.Get(0).(func(context.Context, *demand.Record) (*demand.Record, error)); ok {
		return fn(ctx, rec)
	}
	stored, _ := args.Get(0).(*demand.Record)
	return stored, args.Error(1)
}

type MockCourierDirectory struct{ mock.Mock }

func (m *MockCourierDirectory) CountAvailableCouriersNear(
	ctx context.Context,
	loc kernel.Location,
	radiusMeters float64,
) (int, error) {
	args := m.Called(ctx, loc, radiusMeters)
	return args.Int(0), args.Error(1)
}

type MockDemandQuery struct{ mock.Mock }

func (m *MockDemandQuery) CountActiveRequestsNear(
	ctx context.Context,
	loc kernel.Location,
	radiusMeters float64,
	now time.Time,
) (int, error) {
	args := m.Called(ctx, loc, radiusMeters, now)
	return args.Int(0), args.Error(1)
}

func (m *MockDemandQuery) CountCompletedDeliveriesNear(
	ctx context.Context,
	loc kernel.Location,
	radiusMeters float64,
	since time.Time,
) (int, error) {
	args := m.Called(ctx, loc, radiusMeters, since)
	return args.Int(0), args.Error(1)
}
