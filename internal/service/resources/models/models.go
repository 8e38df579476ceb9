package models

import (
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// ResourceStatus состояние экземпляра ресурса, вычисленное на момент запроса
type ResourceStatus struct {
	Resource *domain.ResourceInstance

	// CurrentlyOutOfService вычисляется из периодов обслуживания, а не берётся из сохранённого флага
	CurrentlyOutOfService bool
	HasFutureReservation  bool

	Held          bool
	HoldExpiresAt *time.Time

	// Maintenance периоды обслуживания, которые ещё не закончились
	Maintenance []*domain.Allocation
}

// Flags производные флаги экземпляра
type Flags struct {
	OutOfService         bool
	HasFutureReservation bool
}
