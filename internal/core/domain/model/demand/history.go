package demand

import (
	"math"
	"slices"

	"github.com/samber/lo"
)

// History window bounds, in days.
const (
	DefaultHistoryDays = 7
	MinHistoryDays     = 1
	MaxHistoryDays     = 30
)

// History summarises the stored records of one bucket over a trailing window.
// It is derived on read and never persisted.
type History struct {
	Bucket       string
	DaysAnalysed int
	Samples      int

	AverageMultiplier float64
	PeakMultiplier    float64
	AverageCouriers   float64
	AverageDemand     float64

	// PeakHours are the UTC hours of day whose average multiplier is above
	// neutral, ascending.
	PeakHours []int
}

// Summarize folds records of bucket into a History. Records of other buckets
// are ignored. With no records every average is zero and the multiplier
// averages report neutral pricing.
//
//	h := demand.Summarize("28.05,-26.20", records, 7)
//	h.PeakHours // [8 17 18]
func Summarize(bucket string, records []*Record, days int) History {
	own := lo.Filter(records, func(r *Record, _ int) bool {
		return r != nil && r.Bucket() == bucket
	})

	h := History{
		Bucket:            bucket,
		DaysAnalysed:      days,
		Samples:           len(own),
		AverageMultiplier: 1.0,
		PeakMultiplier:    1.0,
		PeakHours:         []int{},
	}
	if len(own) == 0 {
		return h
	}

	n := float64(len(own))
	h.AverageMultiplier = round2(lo.SumBy(own, (*Record).DemandMultiplier) / n)
	h.PeakMultiplier = lo.MaxBy(own, func(a, b *Record) bool {
		return a.DemandMultiplier() > b.DemandMultiplier()
	}).DemandMultiplier()
	h.AverageCouriers = round2(float64(lo.SumBy(own, (*Record).AvailableCouriers)) / n)
	h.AverageDemand = round2(float64(lo.SumBy(own, (*Record).ActiveDemand)) / n)

	byHour := lo.GroupBy(own, func(r *Record) int {
		return r.TimeSlot().Hour()
	})
	for hour, slotRecords := range byHour {
		avg := lo.SumBy(slotRecords, (*Record).DemandMultiplier) / float64(len(slotRecords))
		if avg > 1.0 {
			h.PeakHours = append(h.PeakHours, hour)
		}
	}
	slices.Sort(h.PeakHours)

	return h
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
