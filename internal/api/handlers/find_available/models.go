package find_available

import (
	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceAllocation/internal/usecase/find_available"
)

// AvailableResourcesResponse свободные экземпляры типа на окно
type AvailableResourcesResponse struct {
	ResourceType string                  `json:"resourceType"`
	Window       handlers.WindowResponse `json:"window"`
	Resources    []handlers.Resource     `json:"resources"`
}

// FromUseCaseResponse конвертирует ответ use case
func FromUseCaseResponse(resp *find_available.Response) *AvailableResourcesResponse {
	out := &AvailableResourcesResponse{
		ResourceType: string(resp.ResourceType),
		Window:       handlers.FromWindow(resp.Window),
		Resources:    make([]handlers.Resource, 0, len(resp.Resources)),
	}
	for _, r := range resp.Resources {
		out.Resources = append(out.Resources, handlers.FromResource(r))
	}
	return out
}
