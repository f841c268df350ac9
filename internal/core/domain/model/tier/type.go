package tier

import (
	"fmt"

	"pricing/internal/pkg/errs"
)

// Type is the fixed enumeration of delivery tiers, ordered fastest to slowest.
// The zero value Unknown is invalid and catches uninitialised values.
type Type int

const (
	Unknown Type = iota
	Fastest
	Express
	Standard
	Economy
)

// Types lists every valid tier type, fastest first.
func Types() []Type {
	return []Type{Fastest, Express, Standard, Economy}
}

// String returns the persisted tag of the type ("FASTEST", "EXPRESS", ...).
func (t Type) String() string {
	switch t {
	case Fastest:
		return "FASTEST"
	case Express:
		return "EXPRESS"
	case Standard:
		return "STANDARD"
	case Economy:
		return "ECONOMY"
	case Unknown:
		return "UNKNOWN"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// ParseType converts a persisted tag back to a Type.
func ParseType(s string) (Type, error) {
	for _, t := range Types() {
		if t.String() == s {
			return t, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("tier type", fmt.Errorf("%q is not a known tier type", s))
}

// Validate rejects Unknown and out-of-range values.
func (t Type) Validate() error {
	if t < Fastest || t > Economy {
		return errs.NewValueIsInvalidErrorWithCause("tier type", fmt.Errorf("%d is not a valid tier type", int(t)))
	}
	return nil
}
