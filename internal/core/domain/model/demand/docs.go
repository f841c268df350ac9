// Package demand models the rolling demand signal used to price deliveries.
//
// A Record aggregates, for one location bucket and one hour slot, the number of
// available couriers, active delivery requests and deliveries completed in the
// last hour. Its demand multiplier (0.5 to 5.0) is derived from the
// courier/demand ratio and can not be set directly.
//
// Weather conditions and the event modifier are stored but inert: they stay
// nil and 1.0 until real feeds exist.
package demand
