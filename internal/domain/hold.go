package domain

import "time"

// DefaultHoldTTL lifetime of a checkout hold
const DefaultHoldTTL = 3 * time.Minute

// Hold is a short-lived exclusive lock on one resource instance.
// Its validity is a pure function of now: nothing has to clear it.
type Hold struct {
	ID         int64
	HoldSetID  string
	ResourceID int64
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// IsActive is true while now <= ExpiresAt
func (h *Hold) IsActive(now time.Time) bool {
	return !now.After(h.ExpiresAt)
}

// ResourcePrice is the price of one held instance
type ResourcePrice struct {
	ResourceID int64
	RateCardID int64
	Units      int
	Amount     Money
}

// HoldSet groups the holds placed by one checkout
type HoldSet struct {
	ID          string
	ResourceIDs []int64
	Window      TimeWindow
	Tier        PricingTier
	ExpiresAt   time.Time
	Prices      []ResourcePrice
	Total       Money
}
