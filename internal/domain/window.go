package domain

import (
	"fmt"
	"time"
)

// Slot is a named time-of-day bucket for event-style resources
type Slot string

const (
	SlotMorning Slot = "MORNING"
	SlotEvening Slot = "EVENING"
	SlotNight   Slot = "NIGHT"
)

// IsValid returns true for a known slot value
func (s Slot) IsValid() bool {
	switch s {
	case SlotMorning, SlotEvening, SlotNight:
		return true
	}
	return false
}

// TimeWindow is a half-open interval [Start, End) with an optional slot
type TimeWindow struct {
	Start time.Time
	End   time.Time
	Slot  *Slot
}

// Validate rejects malformed windows (end <= start, unknown slot)
func (w TimeWindow) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return invalidWindow("start and end are required")
	}
	if !w.End.After(w.Start) {
		return invalidWindow("end %s must be after start %s",
			w.End.Format(time.RFC3339), w.Start.Format(time.RFC3339))
	}
	if w.Slot != nil && !w.Slot.IsValid() {
		return invalidWindow("unknown slot %q", *w.Slot)
	}
	return nil
}

// In returns the window with both instants expressed in loc
func (w TimeWindow) In(loc *time.Location) TimeWindow {
	return TimeWindow{Start: w.Start.In(loc), End: w.End.In(loc), Slot: w.Slot}
}

// Equal reports an exact match of start, end and slot
func (w TimeWindow) Equal(o TimeWindow) bool {
	return w.Start.Equal(o.Start) && w.End.Equal(o.End) && sameSlot(w.Slot, o.Slot)
}

// Contains reports whether t lies inside the closed range [Start, End]
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func (w TimeWindow) String() string {
	s := fmt.Sprintf("[%s, %s)", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
	if w.Slot != nil {
		s += " " + string(*w.Slot)
	}
	return s
}

// Overlaps is true iff a.start < b.end && a.end > b.start.
// Touching endpoints do not overlap.
func Overlaps(a, b TimeWindow) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// SlotOverlaps is Overlaps plus equal slots when both windows carry one.
// A window without a slot ignores slots.
func SlotOverlaps(a, b TimeWindow) bool {
	if !Overlaps(a, b) {
		return false
	}
	if a.Slot == nil || b.Slot == nil {
		return true
	}
	return *a.Slot == *b.Slot
}

// DurationUnits returns the billable units of a window: nights for night-based
// resources (civil date difference in loc), 1 for slot and event resources.
func DurationUnits(w TimeWindow, g Granularity, loc *time.Location) (int, error) {
	if !w.End.After(w.Start) {
		return 0, invalidWindow("end must be after start")
	}

	switch g {
	case GranularityNight:
		return DaysBetween(w.Start, w.End, loc), nil
	case GranularitySlot, GranularityEvent:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: unknown granularity %q", ErrInvalidInput, g)
	}
}

// DaysBetween counts civil days from a to b in loc (DST-safe)
func DaysBetween(a, b time.Time, loc *time.Location) int {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// StartOfDay returns midnight of t's civil date in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// IsDateAligned reports whether t is exactly midnight in loc
func IsDateAligned(t time.Time, loc *time.Location) bool {
	return StartOfDay(t, loc).Equal(t)
}

func sameSlot(a, b *Slot) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func invalidWindow(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidWindow, fmt.Sprintf(format, args...))
}
