package demand

// Multiplier bounds of a demand record.
const (
	MinMultiplier = 0.5
	MaxMultiplier = 5.0
)

// Ratio returns available couriers per active request. With no active demand
// the courier count itself is the ratio.
func Ratio(availableCouriers, activeDemand int) float64 {
	if activeDemand > 0 {
		return float64(availableCouriers) / float64(activeDemand)
	}
	return float64(availableCouriers)
}

// MultiplierFor maps a supply/demand ratio to a price multiplier.
// Thresholds are evaluated in order and the first match wins.
func MultiplierFor(ratio float64) float64 {
	switch {
	case ratio < 0.5:
		return 2.5
	case ratio < 1.0:
		return 1.8
	case ratio < 2.0:
		return 1.2
	case ratio > 5.0:
		return 0.8
	default:
		return 1.0
	}
}

// Level is a display label for how busy a bucket is.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelNormal   Level = "NORMAL"
	LevelModerate Level = "MODERATE"
	LevelHigh     Level = "HIGH"
	LevelVeryHigh Level = "VERY_HIGH"
)

// LevelFor labels a demand multiplier.
func LevelFor(multiplier float64) Level {
	switch {
	case multiplier >= 2.5:
		return LevelVeryHigh
	case multiplier >= 1.8:
		return LevelHigh
	case multiplier > 1.0:
		return LevelModerate
	case multiplier < 1.0:
		return LevelLow
	default:
		return LevelNormal
	}
}
