package kernel

import (
	"fmt"
	"math"
	"time"
)

// bucketPrecision is the number of decimal places kept per coordinate.
// Two decimals is a ~1.1 km cell at the equator, narrower in longitude towards the poles.
const bucketPrecision = 2

// Bucket maps a longitude/latitude pair to the key of its demand-aggregation cell.
// Points inside the same cell always collide; points in different cells never
// share a key, but two nearby points may straddle a cell edge.
//
// Example:
//
//	kernel.Bucket(25.001, -24.001) // "25.00,-24.00"
//	kernel.Bucket(25.004, -24.004) // "25.00,-24.00"
func Bucket(longitude, latitude float64) string {
	return fmt.Sprintf("%.*f,%.*f",
		bucketPrecision, roundCoordinate(longitude),
		bucketPrecision, roundCoordinate(latitude))
}

// TimeSlot truncates t to the start of its UTC hour. Demand is aggregated per
// (bucket, slot) pair.
func TimeSlot(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}

func roundCoordinate(v float64) float64 {
	scale := math.Pow10(bucketPrecision)
	r := math.Round(v*scale) / scale
	if r == 0 {
		// -0.001 and 0.001 must share the "0.00" cell
		return 0
	}
	return r
}
