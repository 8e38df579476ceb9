package release_hold

// Response результат снятия набора удержаний
type Response struct {
	HoldSetID           string
	ReleasedHolds       int64
	RemovedPlaceholders int64
}
