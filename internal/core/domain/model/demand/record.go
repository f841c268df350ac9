package demand

import (
	"errors"
	"fmt"
	"time"

	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/pkg/errs"
	"pricing/internal/pkg/guard"
)

const (
	// DefaultAverageDeliveryMinutes stands in until historical delivery times are fed in.
	DefaultAverageDeliveryMinutes = 45.0
	// NeutralEventModifier is stored until an events feed exists.
	NeutralEventModifier = 1.0

	MinEventModifier = 0.5
	MaxEventModifier = 3.0
)

var (
	// ErrRecordIsNotConstructed is returned when a zero-value Record is used.
	ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord or RestoreRecord constructor")
	// ErrBucketIsRequired is returned for an empty bucket key.
	ErrBucketIsRequired = errs.NewValueIsRequiredError("location bucket")
)

// Counts are the raw supply/demand observations of one bucket.
type Counts struct {
	AvailableCouriers   int
	ActiveDemand        int
	CompletedDeliveries int
}

// Snapshot is the persisted state of a record. The multiplier is not part of it:
// it is always recomputed from the counts.
type Snapshot struct {
	ID                     kernel.UUID
	Bucket                 string
	TimeSlot               time.Time
	Counts                 Counts
	AverageDeliveryMinutes float64
	WeatherConditions      *string
	EventModifier          float64
	CalculatedAt           time.Time
}

// Record is the demand aggregate of one (bucket, time slot) pair.
// It is created on the first query for the pair and refreshed in place after
// that; there is never more than one record per pair.
//
// The demand multiplier has no setter. It is derived from the courier/demand
// counts by MultiplierFor whenever a record is built.
type Record struct {
	id                     kernel.UUID
	bucket                 string
	timeSlot               time.Time
	counts                 Counts
	averageDeliveryMinutes float64
	demandMultiplier       float64
	weatherConditions      *string
	eventModifier          float64
	calculatedAt           time.Time

	guard guard.ConstructorGuard
}

// NewRecord computes a fresh record for bucket at calculatedAt.
// The time slot is the hour containing calculatedAt.
//
//	rec, err := demand.NewRecord(kernel.NewUUID(), loc.Bucket(), demand.Counts{
//	    AvailableCouriers: 2, ActiveDemand: 10,
//	}, now)
//	rec.DemandMultiplier() // 2.5
func NewRecord(id kernel.UUID, bucket string, counts Counts, calculatedAt time.Time) (*Record, error) {
	return RestoreRecord(Snapshot{
		ID:                     id,
		Bucket:                 bucket,
		TimeSlot:               kernel.TimeSlot(calculatedAt),
		Counts:                 counts,
		AverageDeliveryMinutes: DefaultAverageDeliveryMinutes,
		EventModifier:          NeutralEventModifier,
		CalculatedAt:           calculatedAt,
	})
}

// RestoreRecord rehydrates a persisted record.
func RestoreRecord(s Snapshot) (*Record, error) {
	if err := validateSnapshot(s); err != nil {
		return nil, err
	}

	return &Record{
		id:                     s.ID,
		bucket:                 s.Bucket,
		timeSlot:               s.TimeSlot.UTC(),
		counts:                 s.Counts,
		averageDeliveryMinutes: s.AverageDeliveryMinutes,
		demandMultiplier:       MultiplierFor(Ratio(s.Counts.AvailableCouriers, s.Counts.ActiveDemand)),
		weatherConditions:      s.WeatherConditions,
		eventModifier:          s.EventModifier,
		calculatedAt:           s.CalculatedAt.UTC(),
		guard:                  guard.NewConstructorGuard(),
	}, nil
}

// Validate checks the record was built through a constructor.
func (r *Record) Validate() error {
	if r == nil {
		return ErrRecordIsNotConstructed
	}
	return r.guard.Validate(ErrRecordIsNotConstructed)
}

// ID returns the record identifier. It survives refreshes of the same slot.
func (r *Record) ID() kernel.UUID {
	return r.id
}

// Bucket returns the location bucket key, e.g. "28.05,-26.20".
func (r *Record) Bucket() string {
	return r.bucket
}

// TimeSlot returns the start of the UTC hour the record covers.
func (r *Record) TimeSlot() time.Time {
	return r.timeSlot
}

// AvailableCouriers returns the courier count observed in the bucket.
func (r *Record) AvailableCouriers() int {
	return r.counts.AvailableCouriers
}

// ActiveDemand returns the count of open delivery requests in the bucket.
func (r *Record) ActiveDemand() int {
	return r.counts.ActiveDemand
}

// CompletedDeliveries returns the deliveries completed in the last hour.
func (r *Record) CompletedDeliveries() int {
	return r.counts.CompletedDeliveries
}

// AverageDeliveryMinutes returns the average delivery duration in minutes.
func (r *Record) AverageDeliveryMinutes() float64 {
	return r.averageDeliveryMinutes
}

// DemandMultiplier returns the multiplier derived from the counts.
func (r *Record) DemandMultiplier() float64 {
	return r.demandMultiplier
}

// EventModifier returns the stored event modifier, neutral until an events feed exists.
func (r *Record) EventModifier() float64 {
	return r.eventModifier
}

// CalculatedAt returns when the counts were last observed.
func (r *Record) CalculatedAt() time.Time {
	return r.calculatedAt
}

// WeatherConditions is nil until a weather feed labels the bucket.
func (r *Record) WeatherConditions() *string {
	return r.weatherConditions
}

// Counts returns the raw observations.
func (r *Record) Counts() Counts {
	return r.counts
}

// Level labels the record's multiplier.
func (r *Record) Level() Level {
	return LevelFor(r.demandMultiplier)
}

// Age returns how long ago the record was calculated.
func (r *Record) Age(now time.Time) time.Duration {
	return now.Sub(r.calculatedAt)
}

// IsFresh reports whether the record is at most maxAge old.
func (r *Record) IsFresh(now time.Time, maxAge time.Duration) bool {
	return r.Age(now) <= maxAge
}

// Snapshot returns the persisted state of the record.
func (r *Record) Snapshot() Snapshot {
	return Snapshot{
		ID:                     r.id,
		Bucket:                 r.bucket,
		TimeSlot:               r.timeSlot,
		Counts:                 r.counts,
		AverageDeliveryMinutes: r.averageDeliveryMinutes,
		WeatherConditions:      r.weatherConditions,
		EventModifier:          r.eventModifier,
		CalculatedAt:           r.calculatedAt,
	}
}

func validateSnapshot(s Snapshot) error {
	errList := []error{s.ID.Validate()}

	if s.Bucket == "" {
		errList = append(errList, ErrBucketIsRequired)
	}
	if s.TimeSlot.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("time slot"))
	}
	if s.CalculatedAt.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("calculated at"))
	}
	errList = append(errList,
		nonNegative("available couriers", s.Counts.AvailableCouriers),
		nonNegative("active demand", s.Counts.ActiveDemand),
		nonNegative("completed deliveries", s.Counts.CompletedDeliveries),
	)
	if !(s.AverageDeliveryMinutes >= 0) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"average delivery time", fmt.Errorf("%v is negative", s.AverageDeliveryMinutes)))
	}
	if !(s.EventModifier >= MinEventModifier && s.EventModifier <= MaxEventModifier) {
		errList = append(errList, errs.NewValueIsOutOfRangeError(
			"event modifier", s.EventModifier, MinEventModifier, MaxEventModifier))
	}

	return errors.Join(errList...)
}

func nonNegative(name string, v int) error {
	if v < 0 {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%d is negative", v))
	}
	return nil
}
