package unreserve_resources

import (
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// Request снятие административных резервов с точно таким окном
type Request struct {
	ResourceIDs []int64
	Window      domain.TimeWindow
	ActorID     int64
}

// ResourceResult результат по одному экземпляру
type ResourceResult struct {
	ResourceID           int64
	Removed              int64
	HasFutureReservation bool
}

// Response итог снятия резервов
type Response struct {
	Removed   int64
	Resources []ResourceResult
}
