package tier

// DefaultCatalog returns the four canonical tiers seeded at startup, fastest first.
func DefaultCatalog() []Attributes {
	return []Attributes{
		{
			Type:                  Fastest,
			Name:                  "Priority",
			Description:           "Dedicated courier, delivered within 1-2 hours",
			MinDeliveryHours:      1,
			MaxDeliveryHours:      2,
			BasePriceMultiplier:   3.0,
			PlatformFeePercentage: 40,
			SLAGuarantee:          95,
		},
		{
			Type:                  Express,
			Name:                  "Express",
			Description:           "Delivered within 2-4 hours",
			MinDeliveryHours:      2,
			MaxDeliveryHours:      4,
			BasePriceMultiplier:   2.0,
			PlatformFeePercentage: 32.5,
			SLAGuarantee:          95,
		},
		{
			Type:                  Standard,
			Name:                  "Standard",
			Description:           "Delivered within 4-8 hours",
			MinDeliveryHours:      4,
			MaxDeliveryHours:      8,
			BasePriceMultiplier:   1.3,
			PlatformFeePercentage: 27.5,
			SLAGuarantee:          90,
		},
		{
			Type:                  Economy,
			Name:                  "Economy",
			Description:           "Same-day delivery within 8-12 hours",
			MinDeliveryHours:      8,
			MaxDeliveryHours:      12,
			BasePriceMultiplier:   1.0,
			PlatformFeePercentage: 22.5,
			SLAGuarantee:          85,
		},
	}
}
