// Package kernel holds the shared value objects of the pricing domain:
//   - UUID: identifier of tiers and demand records
//   - Location: a validated longitude/latitude point with haversine distance
//   - Bucket and TimeSlot: the spatial and temporal keys of demand aggregation
//
// All value objects are immutable and safe for concurrent use.
package kernel
