package domain

import "time"

// ResourceType tags a kind of bookable unit
type ResourceType string

const (
	ResourceRoom       ResourceType = "room"
	ResourceHall       ResourceType = "hall"
	ResourceLawn       ResourceType = "lawn"
	ResourcePhotoshoot ResourceType = "photoshoot"
)

// Granularity defines how a resource type is occupied and priced
type Granularity string

const (
	// GranularityNight - booked per night, windows are date-aligned check-in/check-out
	GranularityNight Granularity = "night"
	// GranularitySlot - booked per day and named slot (MORNING/EVENING/NIGHT)
	GranularitySlot Granularity = "slot"
	// GranularityEvent - booked per session with arbitrary start/end
	GranularityEvent Granularity = "event"
)

// ResourceTypeSpec is the capability set of a resource type.
// Per-type quirks live here as data instead of separate code paths.
type ResourceTypeSpec struct {
	Type        ResourceType
	Granularity Granularity
	// MultiDaySlotPricing charges a slot-based window once per covered day
	MultiDaySlotPricing bool
}

var resourceTypes = map[ResourceType]ResourceTypeSpec{
	ResourceRoom:       {Type: ResourceRoom, Granularity: GranularityNight},
	ResourceHall:       {Type: ResourceHall, Granularity: GranularitySlot},
	ResourceLawn:       {Type: ResourceLawn, Granularity: GranularitySlot},
	ResourcePhotoshoot: {Type: ResourcePhotoshoot, Granularity: GranularityEvent},
}

// LookupResourceType returns the capability set of a resource type
func LookupResourceType(t ResourceType) (ResourceTypeSpec, error) {
	spec, ok := resourceTypes[t]
	if !ok {
		return ResourceTypeSpec{}, ErrUnknownResourceType
	}
	return spec, nil
}

// ValidateWindow checks that the window has the shape the granularity requires.
// Night windows must be date-aligned in loc. Slot windows must carry a slot and
// cover exactly one civil day, or several whole days with MultiDaySlotPricing.
func (s ResourceTypeSpec) ValidateWindow(w TimeWindow, loc *time.Location) error {
	if err := w.Validate(); err != nil {
		return err
	}

	switch s.Granularity {
	case GranularityNight:
		if w.Slot != nil {
			return invalidWindow("slot is not allowed for %s", s.Type)
		}
		if !IsDateAligned(w.Start, loc) || !IsDateAligned(w.End, loc) {
			return invalidWindow("%s window must be date-aligned", s.Type)
		}
	case GranularitySlot:
		if w.Slot == nil {
			return invalidWindow("slot is required for %s", s.Type)
		}
		if !IsDateAligned(w.Start, loc) || !IsDateAligned(w.End, loc) {
			return invalidWindow("%s slot window must be date-aligned", s.Type)
		}
		if !s.MultiDaySlotPricing && DaysBetween(w.Start, w.End, loc) != 1 {
			return invalidWindow("%s slot window must cover exactly one day", s.Type)
		}
	case GranularityEvent:
		if w.Slot != nil {
			return invalidWindow("slot is not allowed for %s", s.Type)
		}
	}

	return nil
}

// ResourceInstance represents one concrete bookable unit
type ResourceInstance struct {
	ID       int64
	Type     ResourceType
	Name     string
	IsActive bool

	// Derived flags, recomputed on every write and by the sweeper.
	// Never authoritative: readers derive from allocations.
	IsOutOfService       bool
	HasFutureReservation bool

	RateCardID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
