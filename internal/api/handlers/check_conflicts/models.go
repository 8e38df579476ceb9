package check_conflicts

import (
	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// ConflictsResponse результат проверки окна. Пустой список - окно свободно.
type ConflictsResponse struct {
	Free bool `json:"free"`
	handlers.ConflictReport
}

func FromReport(r *domain.ConflictReport) *ConflictsResponse {
	return &ConflictsResponse{
		Free:           r.IsEmpty(),
		ConflictReport: handlers.FromConflictReport(r),
	}
}
