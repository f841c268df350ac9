// Package services holds the pure domain services of the pricing engine.
//
// PricingCalculator combines distance, parcel attributes, a delivery tier, the
// local demand multiplier and the urgency of the requested time into a
// Suggestion: final price, platform fee and courier earnings. It performs no
// I/O and is safe for concurrent use.
package services
