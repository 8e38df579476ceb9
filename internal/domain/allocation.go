package domain

import "time"

// AllocationKind is the concrete kind of an allocation
type AllocationKind string

const (
	KindBooking     AllocationKind = "booking"
	KindReservation AllocationKind = "reservation"
	KindMaintenance AllocationKind = "maintenance"
)

// AllKinds lists every allocation kind
var AllKinds = []AllocationKind{KindBooking, KindReservation, KindMaintenance}

// PaymentStatus of a confirmed booking
type PaymentStatus string

const (
	PaymentPaid          PaymentStatus = "paid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
)

// IsValid returns true for a known payment status
func (s PaymentStatus) IsValid() bool {
	return s == PaymentPaid || s == PaymentPartiallyPaid
}

// Allocation occupies a resource instance for a time window
type Allocation struct {
	ID         int64
	ResourceID int64
	Kind       AllocationKind
	Window     TimeWindow

	Reason  *string // maintenance reason
	ActorID *int64  // administrator who created the reservation/maintenance

	// Set only for checkout placeholders (reservation created by a hold)
	HoldSetID     *string
	HoldExpiresAt *time.Time

	PaymentStatus    *PaymentStatus
	PaymentReference *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPlaceholder returns true if the reservation was created by a checkout hold
func (a *Allocation) IsPlaceholder() bool {
	return a.Kind == KindReservation && a.HoldSetID != nil
}

// IsLive returns false for placeholders whose hold expired.
// Expired placeholders stop blocking without being deleted.
func (a *Allocation) IsLive(now time.Time) bool {
	if !a.IsPlaceholder() || a.HoldExpiresAt == nil {
		return true
	}
	return !now.After(*a.HoldExpiresAt)
}

// AllocationFilter selects allocations of one resource instance
type AllocationFilter struct {
	ResourceID int64
	Kinds      []AllocationKind // empty = all kinds
	EndAfter   *time.Time       // only allocations with end > EndAfter
}

// CurrentlyOutOfService derives the out-of-service flag:
// exists(period): period.start <= now <= period.end.
// Non-maintenance allocations are ignored.
func CurrentlyOutOfService(periods []*Allocation, now time.Time) bool {
	for _, p := range periods {
		if p.Kind != KindMaintenance {
			continue
		}
		if p.Window.Contains(now) {
			return true
		}
	}
	return false
}

// HasFutureReservation derives the "has future reservation" flag from rows.
// Only administrator reservations count, checkout placeholders do not.
func HasFutureReservation(allocations []*Allocation, now time.Time) bool {
	for _, a := range allocations {
		if a.Kind == KindReservation && !a.IsPlaceholder() && a.Window.End.After(now) {
			return true
		}
	}
	return false
}
