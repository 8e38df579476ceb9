package domain

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Batch limits
const (
	MaxBatchResources     = 50
	MaxMaintenancePeriods = 100
	MaxReasonLength       = 500
)
