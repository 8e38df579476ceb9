package set_maintenance

import (
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// Period период обслуживания
type Period struct {
	Window domain.TimeWindow
	Reason string
}

// Request замена всего набора периодов обслуживания экземпляра.
// Пустой список снимает обслуживание.
type Request struct {
	ResourceID int64
	Periods    []Period
	ActorID    int64
}

// Response итог замены набора
type Response struct {
	ResourceID            int64
	Periods               []*domain.Allocation
	Replaced              int64
	CurrentlyOutOfService bool
}
