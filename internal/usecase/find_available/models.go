package find_available

import (
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// Request поиск свободных экземпляров типа на окно
type Request struct {
	ResourceType domain.ResourceType
	Window       domain.TimeWindow
}

// Response свободные экземпляры
type Response struct {
	ResourceType domain.ResourceType
	Window       domain.TimeWindow
	Resources    []*domain.ResourceInstance
}
