package parcel

import (
	"fmt"
	"strings"

	"pricing/internal/pkg/errs"
)

// Size is the declared size class of a package.
type Size string

const (
	Small  Size = "small"
	Medium Size = "medium"
	Large  Size = "large"
	Custom Size = "custom"
)

var multipliers = map[Size]float64{
	Small:  1.0,
	Medium: 1.2,
	Large:  1.5,
	Custom: 2.0,
}

// Sizes lists the known sizes, smallest first.
func Sizes() []Size {
	return []Size{Small, Medium, Large, Custom}
}

// ParseSize accepts a size name in any letter case.
func ParseSize(s string) (Size, error) {
	size := Size(strings.ToLower(strings.TrimSpace(s)))
	if err := size.Validate(); err != nil {
		return "", err
	}
	return size, nil
}

// Validate rejects sizes outside the known set.
func (s Size) Validate() error {
	if _, ok := multipliers[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("package size", fmt.Errorf("unknown size %q", string(s)))
	}
	return nil
}

// Multiplier returns the price multiplier of the size, or an error for an unknown size.
func (s Size) Multiplier() (float64, error) {
	m, ok := multipliers[s]
	if !ok {
		return 0, s.Validate()
	}
	return m, nil
}

func (s Size) String() string {
	return string(s)
}
