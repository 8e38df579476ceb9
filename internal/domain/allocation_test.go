package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentlyOutOfService(t *testing.T) {
	period := &Allocation{
		Kind:   KindMaintenance,
		Window: TimeWindow{Start: day(10), End: day(15)},
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "before the period", now: day(9), want: false},
		{name: "at the start", now: day(10), want: true},
		{name: "inside", now: day(12).Add(3 * time.Hour), want: true},
		{name: "at the end", now: day(15), want: true},
		{name: "after the end", now: day(15).Add(time.Second), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentlyOutOfService([]*Allocation{period}, tt.now))
		})
	}

	t.Run("no periods", func(t *testing.T) {
		assert.False(t, CurrentlyOutOfService(nil, day(12)))
	})

	t.Run("reservations are ignored", func(t *testing.T) {
		reservation := &Allocation{Kind: KindReservation, Window: TimeWindow{Start: day(10), End: day(15)}}
		assert.False(t, CurrentlyOutOfService([]*Allocation{reservation}, day(12)))
	})
}

func TestHasFutureReservation(t *testing.T) {
	setID := "set-1"
	expires := day(1).Add(3 * time.Minute)

	admin := &Allocation{Kind: KindReservation, Window: TimeWindow{Start: day(10), End: day(12)}}
	placeholder := &Allocation{
		Kind:          KindReservation,
		Window:        TimeWindow{Start: day(10), End: day(12)},
		HoldSetID:     &setID,
		HoldExpiresAt: &expires,
	}
	maintenance := &Allocation{Kind: KindMaintenance, Window: TimeWindow{Start: day(10), End: day(12)}}

	assert.True(t, HasFutureReservation([]*Allocation{admin}, day(1)))
	assert.False(t, HasFutureReservation([]*Allocation{admin}, day(12)), "finished reservation")
	assert.False(t, HasFutureReservation([]*Allocation{placeholder}, day(1)), "placeholders are not reservations")
	assert.False(t, HasFutureReservation([]*Allocation{maintenance}, day(1)))
}

func TestAllocation_IsLive(t *testing.T) {
	setID := "set-1"
	expires := day(1).Add(3 * time.Minute)
	placeholder := &Allocation{Kind: KindReservation, HoldSetID: &setID, HoldExpiresAt: &expires}

	assert.True(t, placeholder.IsPlaceholder())
	assert.True(t, placeholder.IsLive(day(1)))
	assert.True(t, placeholder.IsLive(expires), "expiry instant is still live")
	assert.False(t, placeholder.IsLive(expires.Add(time.Nanosecond)))

	booking := &Allocation{Kind: KindBooking}
	assert.True(t, booking.IsLive(day(30)))
}

func TestHold_IsActive(t *testing.T) {
	h := &Hold{ExpiresAt: day(1).Add(3 * time.Minute)}

	assert.True(t, h.IsActive(day(1)))
	assert.True(t, h.IsActive(h.ExpiresAt))
	assert.False(t, h.IsActive(h.ExpiresAt.Add(time.Millisecond)))
}

func TestConflictReport(t *testing.T) {
	window := TimeWindow{Start: day(10), End: day(12)}

	t.Run("empty report", func(t *testing.T) {
		r := &ConflictReport{ResourceID: 1, Window: window}
		assert.True(t, r.IsEmpty())
		assert.False(t, r.OnlyExactReservations())
	})

	t.Run("exact admin reservation only", func(t *testing.T) {
		r := &ConflictReport{Window: window, Conflicts: []Conflict{
			{AllocationID: 1, Kind: KindReservation, Window: window},
		}}
		assert.True(t, r.OnlyExactReservations())
		assert.True(t, r.HasKind(KindReservation))
		assert.False(t, r.HasKind(KindBooking))
	})

	t.Run("booking is never supersedable", func(t *testing.T) {
		r := &ConflictReport{Window: window, Conflicts: []Conflict{
			{AllocationID: 1, Kind: KindReservation, Window: window},
			{AllocationID: 2, Kind: KindBooking, Window: window},
		}}
		assert.False(t, r.OnlyExactReservations())
	})

	t.Run("hold placeholder is never supersedable", func(t *testing.T) {
		r := &ConflictReport{Window: window, Conflicts: []Conflict{
			{AllocationID: 1, Kind: KindReservation, Window: window, IsHold: true},
		}}
		assert.False(t, r.OnlyExactReservations())
	})
}

func TestConflictError(t *testing.T) {
	reason := "ремонт кровли"
	report := ConflictReport{
		ResourceID: 7,
		Window:     TimeWindow{Start: day(3), End: day(4)},
		Conflicts: []Conflict{
			{AllocationID: 11, Kind: KindMaintenance, Window: TimeWindow{Start: day(1), End: day(5)}, Reason: &reason},
		},
	}

	err := fmt.Errorf("wrapped: %w", NewConflictError(report))

	assert.ErrorIs(t, err, ErrConflict)

	var conflictErr *ConflictError
	assert.True(t, errors.As(err, &conflictErr))
	assert.Len(t, conflictErr.Reports, 1)
	assert.Contains(t, err.Error(), "maintenance#11")
}

func TestAsUnavailable(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, AsUnavailable(nil))
	})

	t.Run("engine errors pass through", func(t *testing.T) {
		err := fmt.Errorf("%w: resource 3", ErrNotFound)
		assert.Same(t, err, AsUnavailable(err))

		held := &AlreadyHeldError{ResourceID: 1, ExpiresAt: day(1)}
		assert.ErrorIs(t, AsUnavailable(held), ErrAlreadyHeld)
		assert.NotErrorIs(t, AsUnavailable(held), ErrUnavailable)
	})

	t.Run("foreign errors become unavailable", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := AsUnavailable(cause)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.ErrorIs(t, err, cause)
	})
}
