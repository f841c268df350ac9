package tier

import (
	"errors"
	"fmt"

	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/pkg/errs"
	"pricing/internal/pkg/guard"
)

// Attribute bounds.
const (
	MinBasePriceMultiplier   = 0.1
	MaxBasePriceMultiplier   = 10.0
	MinPlatformFeePercentage = 5.0
	MaxPlatformFeePercentage = 50.0
	MinSLAGuarantee          = 50.0
	MaxSLAGuarantee          = 100.0
)

var (
	// ErrTierIsNotConstructed is returned when a zero-value Tier is used.
	ErrTierIsNotConstructed = errors.New("Tier must be created via NewTier or RestoreTier constructor")
	// ErrNameIsRequired is returned for an empty tier name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
)

// Attributes are the admin-editable properties of a tier.
type Attributes struct {
	Type                  Type
	Name                  string
	Description           string
	MinDeliveryHours      int
	MaxDeliveryHours      int
	BasePriceMultiplier   float64
	PlatformFeePercentage float64
	SLAGuarantee          float64
}

// Tier is a named delivery-speed class of the catalog. The catalog holds at
// most one tier per Type. The engine only reads tiers; admins deactivate them
// out of band.
type Tier struct {
	id    kernel.UUID
	attrs Attributes

	active bool
	guard  guard.ConstructorGuard
}

// NewTier validates attrs and creates an active tier.
// All violated rules are reported together.
//
//	t, err := tier.NewTier(kernel.NewUUID(), tier.Attributes{
//	    Type: tier.Fastest, Name: "Priority",
//	    MinDeliveryHours: 1, MaxDeliveryHours: 2,
//	    BasePriceMultiplier: 3.0, PlatformFeePercentage: 40, SLAGuarantee: 95,
//	})
func NewTier(id kernel.UUID, attrs Attributes) (*Tier, error) {
	return RestoreTier(id, attrs, true)
}

// RestoreTier rehydrates a persisted tier including its active flag.
func RestoreTier(id kernel.UUID, attrs Attributes, active bool) (*Tier, error) {
	if err := errors.Join(id.Validate(), validateAttributes(attrs)); err != nil {
		return nil, err
	}

	return &Tier{
		id:     id,
		attrs:  attrs,
		active: active,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate checks the tier was built through a constructor.
func (t *Tier) Validate() error {
	if t == nil {
		return ErrTierIsNotConstructed
	}
	return t.guard.Validate(ErrTierIsNotConstructed)
}

// ID returns the tier identifier.
func (t *Tier) ID() kernel.UUID {
	return t.id
}

// Type returns the tier type, unique across the catalog.
func (t *Tier) Type() Type {
	return t.attrs.Type
}

// Name returns the display name.
func (t *Tier) Name() string {
	return t.attrs.Name
}

// Description returns the display description.
func (t *Tier) Description() string {
	return t.attrs.Description
}

// MinDeliveryHours returns the lower bound of the delivery window.
func (t *Tier) MinDeliveryHours() int {
	return t.attrs.MinDeliveryHours
}

// MaxDeliveryHours returns the upper bound of the delivery window.
func (t *Tier) MaxDeliveryHours() int {
	return t.attrs.MaxDeliveryHours
}

// BasePriceMultiplier returns the factor applied to the rate-card price.
func (t *Tier) BasePriceMultiplier() float64 {
	return t.attrs.BasePriceMultiplier
}

// PlatformFeePercentage returns the platform's share of the final price, in percent.
func (t *Tier) PlatformFeePercentage() float64 {
	return t.attrs.PlatformFeePercentage
}

// SLAGuarantee returns the on-time delivery guarantee, in percent.
func (t *Tier) SLAGuarantee() float64 {
	return t.attrs.SLAGuarantee
}

// IsActive reports whether the tier is offered to customers.
func (t *Tier) IsActive() bool {
	return t.active
}

// Attributes returns a copy of the tier's attributes.
func (t *Tier) Attributes() Attributes {
	return t.attrs
}

// DeliveryWindow renders the window for display, e.g. "1-2 hours".
func (t *Tier) DeliveryWindow() string {
	return fmt.Sprintf("%d-%d hours", t.attrs.MinDeliveryHours, t.attrs.MaxDeliveryHours)
}

func validateAttributes(a Attributes) error {
	var errList []error

	if err := a.Type.Validate(); err != nil {
		errList = append(errList, err)
	}
	if a.Name == "" {
		errList = append(errList, ErrNameIsRequired)
	}
	if a.MinDeliveryHours < 1 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"min delivery hours", fmt.Errorf("%d is not greater than 0", a.MinDeliveryHours)))
	}
	if a.MaxDeliveryHours < a.MinDeliveryHours {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"max delivery hours", fmt.Errorf("%d is less than min %d", a.MaxDeliveryHours, a.MinDeliveryHours)))
	}
	if !inRange(a.BasePriceMultiplier, MinBasePriceMultiplier, MaxBasePriceMultiplier) {
		errList = append(errList, errs.NewValueIsOutOfRangeError(
			"base price multiplier", a.BasePriceMultiplier, MinBasePriceMultiplier, MaxBasePriceMultiplier))
	}
	if !inRange(a.PlatformFeePercentage, MinPlatformFeePercentage, MaxPlatformFeePercentage) {
		errList = append(errList, errs.NewValueIsOutOfRangeError(
			"platform fee percentage", a.PlatformFeePercentage, MinPlatformFeePercentage, MaxPlatformFeePercentage))
	}
	if !inRange(a.SLAGuarantee, MinSLAGuarantee, MaxSLAGuarantee) {
		errList = append(errList, errs.NewValueIsOutOfRangeError(
			"SLA guarantee", a.SLAGuarantee, MinSLAGuarantee, MaxSLAGuarantee))
	}

	return errors.Join(errList...)
}

// inRange is false for NaN.
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
