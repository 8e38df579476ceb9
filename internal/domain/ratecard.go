package domain

import (
	"fmt"
	"time"
)

// Money amount in minor currency units
type Money int64

// PricingTier selects member or guest rates
type PricingTier string

const (
	TierMember PricingTier = "member"
	TierGuest  PricingTier = "guest"
)

// RateCard holds per-unit rates of a resource type or a specific instance
type RateCard struct {
	ID           int64
	ResourceType ResourceType
	Name         string
	MemberRate   Money
	GuestRate    Money
	IsDefault    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UnitRate returns the rate for a tier
func (c *RateCard) UnitRate(tier PricingTier) (Money, error) {
	switch tier {
	case TierMember:
		return c.MemberRate, nil
	case TierGuest:
		return c.GuestRate, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRateTier, tier)
	}
}
