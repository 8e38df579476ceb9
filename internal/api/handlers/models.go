package handlers

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// WindowRequest окно во входящих запросах.
// Start/End: дата YYYY-MM-DD (полночь в часовом поясе движка) или RFC 3339.
type WindowRequest struct {
	Start string  `json:"start" validate:"required"`
	End   string  `json:"end" validate:"required"`
	Slot  *string `json:"slot,omitempty" validate:"omitempty,oneof=MORNING EVENING NIGHT"`
}

// ToDomain разбирает окно в часовом поясе loc
func (w WindowRequest) ToDomain(loc *time.Location) (domain.TimeWindow, error) {
	start, err := ParseInstant(w.Start, loc)
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("start: %w", err)
	}
	end, err := ParseInstant(w.End, loc)
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("end: %w", err)
	}

	window := domain.TimeWindow{Start: start, End: end}
	if w.Slot != nil {
		slot := domain.Slot(*w.Slot)
		window.Slot = &slot
	}
	return window, nil
}

// ParseInstant принимает YYYY-MM-DD или RFC 3339
func ParseInstant(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(domain.DateFormat, value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expected YYYY-MM-DD or RFC 3339, got %q", domain.ErrInvalidWindow, value)
	}
	return t.In(loc), nil
}

// WindowResponse окно в ответах
type WindowResponse struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Slot  *string `json:"slot,omitempty"`
}

// FromWindow конвертирует доменное окно
func FromWindow(w domain.TimeWindow) WindowResponse {
	resp := WindowResponse{
		Start: w.Start.Format(time.RFC3339),
		End:   w.End.Format(time.RFC3339),
	}
	if w.Slot != nil {
		slot := string(*w.Slot)
		resp.Slot = &slot
	}
	return resp
}

// Conflict одно пересечение
type Conflict struct {
	AllocationID int64          `json:"allocationId"`
	Kind         string         `json:"kind"`
	Window       WindowResponse `json:"window"`
	Reason       *string        `json:"reason,omitempty"`
	IsHold       bool           `json:"isHold"`
}

// ConflictReport пересечения на одном экземпляре
type ConflictReport struct {
	ResourceID int64          `json:"resourceId"`
	Window     WindowResponse `json:"window"`
	Conflicts  []Conflict     `json:"conflicts"`
}

// FromConflictReport конвертирует доменный отчёт
func FromConflictReport(r *domain.ConflictReport) ConflictReport {
	resp := ConflictReport{
		ResourceID: r.ResourceID,
		Window:     FromWindow(r.Window),
		Conflicts:  make([]Conflict, 0, len(r.Conflicts)),
	}
	for _, c := range r.Conflicts {
		resp.Conflicts = append(resp.Conflicts, Conflict{
			AllocationID: c.AllocationID,
			Kind:         string(c.Kind),
			Window:       FromWindow(c.Window),
			Reason:       c.Reason,
			IsHold:       c.IsHold,
		})
	}
	return resp
}

func FromConflictReports(reports []domain.ConflictReport) []ConflictReport {
	resp := make([]ConflictReport, 0, len(reports))
	for i := range reports {
		resp = append(resp, FromConflictReport(&reports[i]))
	}
	return resp
}

// Allocation занятость экземпляра
type Allocation struct {
	ID               int64          `json:"id"`
	ResourceID       int64          `json:"resourceId"`
	Kind             string         `json:"kind"`
	Window           WindowResponse `json:"window"`
	Reason           *string        `json:"reason,omitempty"`
	ActorID          *int64         `json:"actorId,omitempty"`
	HoldSetID        *string        `json:"holdSetId,omitempty"`
	HoldExpiresAt    *string        `json:"holdExpiresAt,omitempty"`
	PaymentStatus    *string        `json:"paymentStatus,omitempty"`
	PaymentReference *string        `json:"paymentReference,omitempty"`
	CreatedAt        string         `json:"createdAt"`
}

// FromAllocation конвертирует доменную занятость
func FromAllocation(a *domain.Allocation) Allocation {
	resp := Allocation{
		ID:               a.ID,
		ResourceID:       a.ResourceID,
		Kind:             string(a.Kind),
		Window:           FromWindow(a.Window),
		Reason:           a.Reason,
		ActorID:          a.ActorID,
		HoldSetID:        a.HoldSetID,
		PaymentReference: a.PaymentReference,
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
	}
	if a.HoldExpiresAt != nil {
		s := a.HoldExpiresAt.Format(time.RFC3339)
		resp.HoldExpiresAt = &s
	}
	if a.PaymentStatus != nil {
		s := string(*a.PaymentStatus)
		resp.PaymentStatus = &s
	}
	return resp
}

func FromAllocations(list []*domain.Allocation) []Allocation {
	resp := make([]Allocation, 0, len(list))
	for _, a := range list {
		resp = append(resp, FromAllocation(a))
	}
	return resp
}

// Resource экземпляр ресурса
type Resource struct {
	ID                   int64  `json:"id"`
	Type                 string `json:"type"`
	Name                 string `json:"name"`
	IsActive             bool   `json:"isActive"`
	IsOutOfService       bool   `json:"isOutOfService"`
	HasFutureReservation bool   `json:"hasFutureReservation"`
	RateCardID           *int64 `json:"rateCardId,omitempty"`
}

// FromResource конвертирует доменный экземпляр
func FromResource(r *domain.ResourceInstance) Resource {
	return Resource{
		ID:                   r.ID,
		Type:                 string(r.Type),
		Name:                 r.Name,
		IsActive:             r.IsActive,
		IsOutOfService:       r.IsOutOfService,
		HasFutureReservation: r.HasFutureReservation,
		RateCardID:           r.RateCardID,
	}
}
