// Package tier models the tier catalog: the small, fixed set of delivery-speed
// classes (Fastest, Express, Standard, Economy) that each get their own price
// suggestion.
//
// Business rules:
//   - at most one tier per Type; seeding never overwrites an existing tier
//   - 1 <= MinDeliveryHours <= MaxDeliveryHours
//   - BasePriceMultiplier in [0.1, 10], PlatformFeePercentage in [5, 50], SLAGuarantee in [50, 100]
//   - tiers are deactivated by admins, never deleted by the engine
package tier
