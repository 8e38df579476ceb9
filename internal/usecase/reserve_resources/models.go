package reserve_resources

import (
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// Request административный резерв нескольких экземпляров на одно окно
type Request struct {
	ResourceIDs []int64
	Window      domain.TimeWindow
	ActorID     int64
}

// Response итог резервирования
type Response struct {
	ResourceIDs  []int64
	Reservations []*domain.Allocation
	// Superseded количество заменённых резервов с тем же окном и слотом
	Superseded int64
}
