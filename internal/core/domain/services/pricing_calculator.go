package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"pricing/internal/core/domain/model/demand"
	"pricing/internal/core/domain/model/parcel"
	"pricing/internal/core/domain/model/tier"
	"pricing/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Rate card. Amounts are in the marketplace currency.
var (
	PerKmRate         = decimal.RequireFromString("1.25")
	FragileSurcharge  = decimal.NewFromInt(10)
	ValuableSurcharge = decimal.NewFromInt(20)

	hundred = decimal.NewFromInt(100)
)

const moneyPlaces = 2

// BaseRate returns the flat starting price of a tier type. Faster tiers start higher.
func BaseRate(t tier.Type) (decimal.Decimal, error) {
	switch t {
	case tier.Fastest:
		return decimal.NewFromInt(50), nil
	case tier.Express:
		return decimal.NewFromInt(35), nil
	case tier.Standard:
		return decimal.NewFromInt(25), nil
	case tier.Economy:
		return decimal.NewFromInt(15), nil
	default:
		return decimal.Zero, t.Validate()
	}
}

// UrgencyMultiplier prices a requested delivery time that is sooner than the
// tier's own minimum window. A nil requested time, or one at or beyond the
// window, is not urgent. Times already in the past count as the most urgent.
func UrgencyMultiplier(requested *time.Time, now time.Time, minDeliveryHours int) float64 {
	if requested == nil {
		return 1.0
	}

	hoursUntil := requested.Sub(now).Hours()
	if hoursUntil >= float64(minDeliveryHours) {
		return 1.0
	}

	switch {
	case hoursUntil <= 0.5:
		return 2.0
	case hoursUntil <= 1.0:
		return 1.5
	default:
		return 1.25
	}
}

// PricingInput is everything the calculator needs to price one tier.
// Demand may be nil: a bucket without demand data is priced with a neutral
// multiplier of 1.0.
type PricingInput struct {
	DistanceKm        float64
	// DistanceEstimated marks DistanceKm as a great-circle estimate.
	DistanceEstimated bool
	Parcel            parcel.Parcel
	Tier              *tier.Tier
	Demand            *demand.Record
	RequestedAt       *time.Time
	Now               time.Time
}

// Suggestion is a priced delivery option for one tier. It is never persisted.
type Suggestion struct {
	TierType          tier.Type
	TierName          string
	BasePrice         decimal.Decimal
	DemandMultiplier  float64
	UrgencyMultiplier float64
	FinalPrice        decimal.Decimal
	// SurgeAmount is FinalPrice - BasePrice: what demand and urgency added
	// (negative when supply is plentiful).
	SurgeAmount       decimal.Decimal
	PlatformFee       decimal.Decimal
	CourierEarnings   decimal.Decimal
	EstimatedDelivery string
	DemandLevel       demand.Level
	SLAGuarantee      float64
	// Confidence is in (0, 1]: how much of the price rests on measured inputs.
	Confidence        float64
}

// PricingCalculator is a pure domain service that turns distance, parcel
// attributes, a tier and the local demand signal into a price split between
// the platform and the courier.
//
// All intermediate arithmetic is exact decimal. Rounding to cents happens
// once, on output:
//
//	final    = round(base * demand * urgency, 2)
//	fee      = round(final * feePercentage / 100, 2)
//	earnings = final - fee
//
// so fee and earnings always add up to the displayed final price.
//
// Example:
//
//	calc := services.NewPricingCalculator()
//	s, err := calc.Calculate(services.PricingInput{
//	    DistanceKm: 50,
//	    Parcel:     parcel.Parcel{Size: parcel.Medium},
//	    Tier:       fastest,
//	    Now:        now,
//	})
//	// s.FinalPrice == 405.00, s.PlatformFee == 162.00, s.CourierEarnings == 243.00
type PricingCalculator struct{}

// NewPricingCalculator creates a PricingCalculator.
func NewPricingCalculator() PricingCalculator {
	return PricingCalculator{}
}

// Calculate prices one tier. Input errors (bad distance, unknown size, an
// unconstructed tier) are returned before any arithmetic.
func (c PricingCalculator) Calculate(in PricingInput) (Suggestion, error) {
	if err := validateInput(in); err != nil {
		return Suggestion{}, err
	}

	base, err := c.basePrice(in)
	if err != nil {
		return Suggestion{}, err
	}

	demandMultiplier := 1.0
	level := demand.LevelNormal
	if in.Demand != nil {
		demandMultiplier = in.Demand.DemandMultiplier()
		level = in.Demand.Level()
	}
	urgency := UrgencyMultiplier(in.RequestedAt, in.Now, in.Tier.MinDeliveryHours())

	final := base.
		Mul(decimal.NewFromFloat(demandMultiplier)).
		Mul(decimal.NewFromFloat(urgency)).
		Round(moneyPlaces)
	// Fee from the rounded final so that fee + earnings == final exactly.
	fee := final.
		Mul(decimal.NewFromFloat(in.Tier.PlatformFeePercentage())).
		Div(hundred).
		Round(moneyPlaces)

	basePrice := base.Round(moneyPlaces)

	return Suggestion{
		TierType:          in.Tier.Type(),
		TierName:          in.Tier.Name(),
		BasePrice:         basePrice,
		DemandMultiplier:  demandMultiplier,
		UrgencyMultiplier: urgency,
		FinalPrice:        final,
		SurgeAmount:       final.Sub(basePrice),
		PlatformFee:       fee,
		CourierEarnings:   final.Sub(fee),
		EstimatedDelivery: in.Tier.DeliveryWindow(),
		DemandLevel:       level,
		SLAGuarantee:      in.Tier.SLAGuarantee(),
		Confidence:        ConfidenceScore(in),
	}, nil
}

// ConfidenceScore starts at 1.0 and drops for every input that had to be
// assumed: an estimated distance (-0.2), no requested delivery time (-0.1),
// no demand record for the bucket (-0.1).
func ConfidenceScore(in PricingInput) float64 {
	score := 1.0
	if in.DistanceEstimated {
		score -= 0.2
	}
	if in.RequestedAt == nil {
		score -= 0.1
	}
	if in.Demand == nil {
		score -= 0.1
	}
	return math.Round(score*100) / 100
}

// basePrice applies steps that do not depend on demand or timing:
// rate card, size, surcharges and the tier multiplier.
func (c PricingCalculator) basePrice(in PricingInput) (decimal.Decimal, error) {
	rate, err := BaseRate(in.Tier.Type())
	if err != nil {
		return decimal.Zero, err
	}
	sizeMultiplier, err := in.Parcel.Size.Multiplier()
	if err != nil {
		return decimal.Zero, err
	}

	base := rate.
		Add(decimal.NewFromFloat(in.DistanceKm).Mul(PerKmRate)).
		Mul(decimal.NewFromFloat(sizeMultiplier))
	if in.Parcel.Fragile {
		base = base.Add(FragileSurcharge)
	}
	if in.Parcel.Valuable {
		base = base.Add(ValuableSurcharge)
	}

	return base.Mul(decimal.NewFromFloat(in.Tier.BasePriceMultiplier())), nil
}

func validateInput(in PricingInput) error {
	return errors.Join(
		ValidateDistance(in.DistanceKm),
		in.Parcel.Validate(),
		in.Tier.Validate(),
	)
}

// ValidateDistance rejects negative and non-finite distances.
func ValidateDistance(km float64) error {
	if math.IsNaN(km) || math.IsInf(km, 0) {
		return errs.NewValueIsInvalidErrorWithCause("distance", fmt.Errorf("%v is not a finite number", km))
	}
	if km < 0 {
		return errs.NewValueIsInvalidErrorWithCause("distance", fmt.Errorf("%v km is negative", km))
	}
	return nil
}
