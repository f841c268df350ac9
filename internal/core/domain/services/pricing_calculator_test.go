package services_test

import (
	"math"
	"testing"
	"time"

	"pricing/internal/core/domain/model/demand"
	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/core/domain/model/parcel"
	"pricing/internal/core/domain/model/tier"
	"pricing/internal/core/domain/services"
	"pricing/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 2, 14, 20, 0, 0, time.UTC)

func catalog(t *testing.T) []*tier.Tier {
	t.Helper()

	tiers := make([]*tier.Tier, 0, 4)
	for _, attrs := range tier.DefaultCatalog() {
		tr, err := tier.NewTier(kernel.NewUUID(), attrs)
		require.NoError(t, err)
		tiers = append(tiers, tr)
	}
	return tiers
}

func record(t *testing.T, couriers, active int) *demand.Record {
	t.Helper()

	rec, err := demand.NewRecord(kernel.NewUUID(), "28.05,-26.20", demand.Counts{
		AvailableCouriers: couriers,
		ActiveDemand:      active,
	}, now)
	require.NoError(t, err)
	return rec
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestPricingCalculator_Calculate(t *testing.T) {
	calc := services.NewPricingCalculator()
	tiers := catalog(t)
	fastest := tiers[0]

	t.Run("should price the worked example", func(t *testing.T) {
		s, err := calc.Calculate(services.PricingInput{
			DistanceKm: 50,
			Parcel:     parcel.Parcel{Size: parcel.Medium},
			Tier:       fastest,
			Now:        now,
		})

		require.NoError(t, err)
		assert.Equal(t, tier.Fastest, s.TierType)
		assert.Equal(t, "Priority", s.TierName)
		assertMoney(t, "405.00", s.BasePrice)
		assertMoney(t, "405.00", s.FinalPrice)
		assertMoney(t, "162.00", s.PlatformFee)
		assertMoney(t, "243.00", s.CourierEarnings)
		assertMoney(t, "0.00", s.SurgeAmount)
		assert.InDelta(t, 0.8, s.Confidence, 1e-9)
		assert.InDelta(t, 1.0, s.DemandMultiplier, 0)
		assert.InDelta(t, 1.0, s.UrgencyMultiplier, 0)
		assert.Equal(t, demand.LevelNormal, s.DemandLevel)
		assert.Equal(t, "1-2 hours", s.EstimatedDelivery)
		assert.InDelta(t, 95.0, s.SLAGuarantee, 0)
	})

	t.Run("should add surcharges before tier multiplier", func(t *testing.T) {
		s, err := calc.Calculate(services.PricingInput{
			DistanceKm: 10,
			Parcel:     parcel.Parcel{Size: parcel.Small, Fragile: true, Valuable: true},
			Tier:       tiers[3],
			Now:        now,
		})

		require.NoError(t, err)
		// (15 + 12.5) * 1.0 + 10 + 20 = 57.5, economy multiplier 1.0
		assertMoney(t, "57.50", s.FinalPrice)
		// 22.5% of 57.50 = 12.9375
		assertMoney(t, "12.94", s.PlatformFee)
		assertMoney(t, "44.56", s.CourierEarnings)
	})

	t.Run("should apply demand multiplier from record", func(t *testing.T) {
		s, err := calc.Calculate(services.PricingInput{
			DistanceKm: 50,
			Parcel:     parcel.Parcel{Size: parcel.Medium},
			Tier:       fastest,
			Demand:     record(t, 2, 10),
			Now:        now,
		})

		require.NoError(t, err)
		assert.InDelta(t, 2.5, s.DemandMultiplier, 0)
		assert.Equal(t, demand.LevelVeryHigh, s.DemandLevel)
		assertMoney(t, "405.00", s.BasePrice)
		assertMoney(t, "1012.50", s.FinalPrice)
		assertMoney(t, "607.50", s.SurgeAmount)
		assertMoney(t, "405.00", s.PlatformFee)
		assertMoney(t, "607.50", s.CourierEarnings)
	})

	t.Run("should keep fee and earnings consistent with final price", func(t *testing.T) {
		requested := now.Add(20 * time.Minute)
		for _, tr := range tiers {
			for _, size := range parcel.Sizes() {
				for _, km := range []float64{0, 0.333, 3.7, 12.345, 99.99} {
					s, err := calc.Calculate(services.PricingInput{
						DistanceKm:  km,
						Parcel:      parcel.Parcel{Size: size, Fragile: km > 10},
						Tier:        tr,
						Demand:      record(t, 9, 10),
						RequestedAt: &requested,
						Now:         now,
					})
					require.NoError(t, err)

					wantFee := s.FinalPrice.
						Mul(decimal.NewFromFloat(tr.PlatformFeePercentage())).
						Div(decimal.NewFromInt(100)).
						Round(2)
					assert.True(t, wantFee.Equal(s.PlatformFee))
					assert.True(t, s.FinalPrice.Sub(s.PlatformFee).Round(2).Equal(s.CourierEarnings))
					assert.True(t, s.FinalPrice.Equal(s.FinalPrice.Round(2)))
				}
			}
		}
	})

	t.Run("should price faster tiers at least as high", func(t *testing.T) {
		for _, km := range []float64{0, 1, 25, 250} {
			var prices []decimal.Decimal
			for _, tr := range tiers {
				s, err := calc.Calculate(services.PricingInput{
					DistanceKm: km,
					Parcel:     parcel.Parcel{Size: parcel.Large},
					Tier:       tr,
					Now:        now,
				})
				require.NoError(t, err)
				prices = append(prices, s.FinalPrice)
			}
			for i := 1; i < len(prices); i++ {
				assert.True(t, prices[i-1].GreaterThanOrEqual(prices[i]), "km=%v tier %d", km, i)
			}
		}
	})

	t.Run("should price zero distance above zero", func(t *testing.T) {
		for _, tr := range tiers {
			s, err := calc.Calculate(services.PricingInput{
				Parcel: parcel.Parcel{Size: parcel.Small},
				Tier:   tr,
				Demand: record(t, 100, 1),
				Now:    now,
			})
			require.NoError(t, err)
			assert.True(t, s.FinalPrice.IsPositive(), tr.Type().String())
		}
	})

	t.Run("should be deterministic", func(t *testing.T) {
		in := services.PricingInput{
			DistanceKm: 17.3,
			Parcel:     parcel.Parcel{Size: parcel.Custom, Valuable: true},
			Tier:       tiers[1],
			Demand:     record(t, 3, 4),
			Now:        now,
		}

		first, err := calc.Calculate(in)
		require.NoError(t, err)
		second, err := calc.Calculate(in)
		require.NoError(t, err)

		assert.True(t, first.FinalPrice.Equal(second.FinalPrice))
		assert.True(t, first.PlatformFee.Equal(second.PlatformFee))
	})

	tests := []struct {
		name    string
		in      services.PricingInput
		wantErr error
	}{
		{"negative distance", services.PricingInput{DistanceKm: -1, Parcel: parcel.Parcel{Size: parcel.Small}, Tier: fastest}, errs.ErrValueIsInvalid},
		{"NaN distance", services.PricingInput{DistanceKm: math.NaN(), Parcel: parcel.Parcel{Size: parcel.Small}, Tier: fastest}, errs.ErrValueIsInvalid},
		{"infinite distance", services.PricingInput{DistanceKm: math.Inf(1), Parcel: parcel.Parcel{Size: parcel.Small}, Tier: fastest}, errs.ErrValueIsInvalid},
		{"unknown size", services.PricingInput{DistanceKm: 1, Parcel: parcel.Parcel{Size: "xl"}, Tier: fastest}, errs.ErrValueIsInvalid},
		{"missing tier", services.PricingInput{DistanceKm: 1, Parcel: parcel.Parcel{Size: parcel.Small}}, tier.ErrTierIsNotConstructed},
	}

	for _, tt := range tests {
		t.Run("should reject "+tt.name, func(t *testing.T) {
			tt.in.Now = now

			_, err := calc.Calculate(tt.in)

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUrgencyMultiplier(t *testing.T) {
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	tests := []struct {
		name      string
		requested *time.Time
		minHours  int
		want      float64
	}{
		{"no requested time", nil, 8, 1.0},
		{"within window", at(9 * time.Hour), 8, 1.0},
		{"exactly at window", at(8 * time.Hour), 8, 1.0},
		{"in the past", at(-time.Hour), 1, 2.0},
		{"half an hour", at(30 * time.Minute), 2, 2.0},
		{"forty minutes", at(40 * time.Minute), 2, 1.5},
		{"one hour", at(time.Hour), 2, 1.5},
		{"ninety minutes", at(90 * time.Minute), 2, 1.25},
		{"just under window", at(7*time.Hour + 59*time.Minute), 8, 1.25},
		{"past minimum of one hour", at(time.Hour), 1, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, services.UrgencyMultiplier(tt.requested, now, tt.minHours), 0)
		})
	}
}

func TestBaseRate(t *testing.T) {
	prev := decimal.NewFromInt(math.MaxInt32)
	for _, tp := range tier.Types() {
		rate, err := services.BaseRate(tp)
		require.NoError(t, err)
		assert.True(t, rate.LessThan(prev), tp.String())
		prev = rate
	}

	_, err := services.BaseRate(tier.Unknown)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestConfidenceScore(t *testing.T) {
	at := now.Add(6 * time.Hour)
	rec := record(t, 4, 4)

	tests := []struct {
		name string
		in   services.PricingInput
		want float64
	}{
		{"all inputs measured", services.PricingInput{RequestedAt: &at, Demand: rec}, 1.0},
		{"estimated distance", services.PricingInput{DistanceEstimated: true, RequestedAt: &at, Demand: rec}, 0.8},
		{"no requested time", services.PricingInput{Demand: rec}, 0.9},
		{"no demand record", services.PricingInput{RequestedAt: &at}, 0.9},
		{"nothing measured", services.PricingInput{DistanceEstimated: true}, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, services.ConfidenceScore(tt.in), 1e-9)
		})
	}
}

func TestPricingCalculator_SurgeAmountIsFinalMinusBase(t *testing.T) {
	calc := services.NewPricingCalculator()
	at := now.Add(20 * time.Minute)

	for _, tr := range catalog(t) {
		for _, rec := range []*demand.Record{nil, record(t, 1, 10), record(t, 30, 2)} {
			s, err := calc.Calculate(services.PricingInput{
				DistanceKm:  12.3,
				Parcel:      parcel.Parcel{Size: parcel.Large, Fragile: true},
				Tier:        tr,
				Demand:      rec,
				RequestedAt: &at,
				Now:         now,
			})
			require.NoError(t, err)
			assert.True(t, s.FinalPrice.Sub(s.BasePrice).Equal(s.SurgeAmount),
				"%s: %s - %s != %s", tr.Type(), s.FinalPrice, s.BasePrice, s.SurgeAmount)
		}
	}
}
