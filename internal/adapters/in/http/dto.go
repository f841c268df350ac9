package http

import (
	"encoding/json"
	"errors"
	"time"

	"pricing/internal/core/domain/model/demand"
	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/core/domain/model/tier"
	"pricing/internal/core/domain/services"
	"pricing/internal/pkg/errs"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Location is a WGS84 point. Both fields are required.
type Location struct {
	Longitude *float64 `json:"longitude"`
	Latitude  *float64 `json:"latitude"`
}

func (l *Location) toDomain(name string) (kernel.Location, error) {
	if l == nil {
		return kernel.Location{}, errs.NewValueIsRequiredError(name)
	}
	if l.Longitude == nil || l.Latitude == nil {
		return kernel.Location{}, errs.NewValueIsRequiredErrorWithCause(name, errors.New("longitude and latitude are required"))
	}
	loc, err := kernel.NewLocation(*l.Longitude, *l.Latitude)
	if err != nil {
		return kernel.Location{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return loc, nil
}

// SuggestPricingRequest is the body of POST /api/v1/pricing/suggestions.
type SuggestPricingRequest struct {
	Pickup                *Location  `json:"pickup"`
	Dropoff               *Location  `json:"dropoff"`
	DistanceKm            *float64   `json:"distance_km,omitempty"`
	PackageSize           string     `json:"package_size"`
	IsFragile             bool       `json:"is_fragile"`
	IsValuable            bool       `json:"is_valuable"`
	RequestedDeliveryTime *time.Time `json:"requested_delivery_time,omitempty"`
}

// Suggestion is one priced tier.
type Suggestion struct {
	TierType          string      `json:"tier_type"`
	TierName          string      `json:"tier_name"`
	BasePrice         json.Number `json:"base_price"`
	DemandMultiplier  float64     `json:"demand_multiplier"`
	UrgencyMultiplier float64     `json:"urgency_multiplier"`
	FinalPrice        json.Number `json:"final_price"`
	SurgeAmount       json.Number `json:"surge_amount"`
	PlatformFee       json.Number `json:"platform_fee"`
	CourierEarnings   json.Number `json:"courier_earnings"`
	EstimatedDelivery string      `json:"estimated_delivery"`
	DemandLevel       string      `json:"demand_level"`
	SLAGuarantee      float64     `json:"sla_guarantee"`
	Confidence        float64     `json:"confidence"`
}

// SuggestPricingResponse lists suggestions fastest tier first. An empty list
// means pricing is unavailable.
type SuggestPricingResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// RefreshDemandRequest is the body of POST /api/v1/demand/refresh.
type RefreshDemandRequest struct {
	Location    *Location `json:"location"`
	ForceUpdate bool      `json:"force_update"`
}

// DemandBatchRequest is the body of POST /api/v1/demand/batch.
type DemandBatchRequest struct {
	Locations []*Location `json:"locations"`
}

// DemandRecord is the demand signal of one bucket and hour.
type DemandRecord struct {
	ID                     string    `json:"id"`
	LocationBucket         string    `json:"location_bucket"`
	TimeSlot               time.Time `json:"time_slot"`
	AvailableCouriers      int       `json:"available_couriers"`
	ActiveDemand           int       `json:"active_demand"`
	CompletedDeliveries    int       `json:"completed_deliveries"`
	AverageDeliveryMinutes float64   `json:"average_delivery_minutes"`
	DemandMultiplier       float64   `json:"demand_multiplier"`
	DemandLevel            string    `json:"demand_level"`
	EventModifier          float64   `json:"event_modifier"`
	WeatherConditions      *string   `json:"weather_conditions,omitempty"`
	CalculatedAt           time.Time `json:"calculated_at"`
	IsFresh                bool      `json:"is_fresh"`
}

// DemandBatchResponse holds the records found; buckets without one are omitted.
type DemandBatchResponse struct {
	Records []DemandRecord `json:"records"`
}

// DemandHistory is the GET /api/v1/demand/history response.
type DemandHistory struct {
	LocationBucket    string  `json:"location_bucket"`
	DaysAnalysed      int     `json:"days_analysed"`
	Samples           int     `json:"samples"`
	AverageMultiplier float64 `json:"average_multiplier"`
	PeakMultiplier    float64 `json:"peak_multiplier"`
	AverageCouriers   float64 `json:"average_couriers"`
	AverageDemand     float64 `json:"average_demand"`
	PeakHours         []int   `json:"peak_hours"`
}

// Tier is an active delivery tier.
type Tier struct {
	ID                    string  `json:"id"`
	Type                  string  `json:"type"`
	Name                  string  `json:"name"`
	Description           string  `json:"description"`
	MinDeliveryHours      int     `json:"min_delivery_hours"`
	MaxDeliveryHours      int     `json:"max_delivery_hours"`
	BasePriceMultiplier   float64 `json:"base_price_multiplier"`
	PlatformFeePercentage float64 `json:"platform_fee_percentage"`
	SLAGuarantee          float64 `json:"sla_guarantee"`
}

// SeedTiersResponse reports how many default tiers were created.
type SeedTiersResponse struct {
	Created int `json:"created"`
}

// CourierAvailabilityRequest is the body of PUT /api/v1/couriers/:id/availability.
type CourierAvailabilityRequest struct {
	Location *Location `json:"location"`
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func suggestionsFromDomain(in []services.Suggestion) []Suggestion {
	return lo.Map(in, func(s services.Suggestion, _ int) Suggestion {
		return Suggestion{
			TierType:          s.TierType.String(),
			TierName:          s.TierName,
			BasePrice:         money(s.BasePrice),
			DemandMultiplier:  s.DemandMultiplier,
			UrgencyMultiplier: s.UrgencyMultiplier,
			FinalPrice:        money(s.FinalPrice),
			SurgeAmount:       money(s.SurgeAmount),
			PlatformFee:       money(s.PlatformFee),
			CourierEarnings:   money(s.CourierEarnings),
			EstimatedDelivery: s.EstimatedDelivery,
			DemandLevel:       string(s.DemandLevel),
			SLAGuarantee:      s.SLAGuarantee,
			Confidence:        s.Confidence,
		}
	})
}

func demandFromDomain(r *demand.Record, fresh bool) DemandRecord {
	return DemandRecord{
		ID:                     r.ID().String(),
		LocationBucket:         r.Bucket(),
		TimeSlot:               r.TimeSlot(),
		AvailableCouriers:      r.AvailableCouriers(),
		ActiveDemand:           r.ActiveDemand(),
		CompletedDeliveries:    r.CompletedDeliveries(),
		AverageDeliveryMinutes: r.AverageDeliveryMinutes(),
		DemandMultiplier:       r.DemandMultiplier(),
		DemandLevel:            string(r.Level()),
		EventModifier:          r.EventModifier(),
		WeatherConditions:      r.WeatherConditions(),
		CalculatedAt:           r.CalculatedAt(),
		IsFresh:                fresh,
	}
}

func historyFromDomain(h demand.History) DemandHistory {
	return DemandHistory{
		LocationBucket:    h.Bucket,
		DaysAnalysed:      h.DaysAnalysed,
		Samples:           h.Samples,
		AverageMultiplier: h.AverageMultiplier,
		PeakMultiplier:    h.PeakMultiplier,
		AverageCouriers:   h.AverageCouriers,
		AverageDemand:     h.AverageDemand,
		PeakHours:         lo.Ternary(h.PeakHours == nil, []int{}, h.PeakHours),
	}
}

func tierFromDomain(t *tier.Tier) Tier {
	return Tier{
		ID:                    t.ID().String(),
		Type:                  t.Type().String(),
		Name:                  t.Name(),
		Description:           t.Description(),
		MinDeliveryHours:      t.MinDeliveryHours(),
		MaxDeliveryHours:      t.MaxDeliveryHours(),
		BasePriceMultiplier:   t.BasePriceMultiplier(),
		PlatformFeePercentage: t.PlatformFeePercentage(),
		SLAGuarantee:          t.SLAGuarantee(),
	}
}
