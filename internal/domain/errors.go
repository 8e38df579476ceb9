package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWindow malformed or past-dated time window
	ErrInvalidWindow = errors.New("invalid window")

	// ErrConflict the window overlaps existing allocations (see ConflictError)
	ErrConflict = errors.New("conflict")

	// ErrAlreadyHeld the resource is under another active hold
	ErrAlreadyHeld = errors.New("already held")

	// ErrNotFound unknown resource instance, hold set or rate card
	ErrNotFound = errors.New("not found")

	// ErrPartialBatchFailure a batch committed only partially.
	// Batches are atomic, so seeing this means a transaction-boundary bug.
	ErrPartialBatchFailure = errors.New("partial batch failure")

	// ErrUnavailable store or transport failure, retry is up to the caller
	ErrUnavailable = errors.New("unavailable")

	// ErrNonPositiveDuration zero or negative billable duration
	ErrNonPositiveDuration = errors.New("non-positive duration")

	// ErrUnknownRateTier pricing tier is neither member nor guest
	ErrUnknownRateTier = errors.New("unknown rate tier")

	// ErrUnknownResourceType resource type is not registered
	ErrUnknownResourceType = errors.New("unknown resource type")

	// ErrInvalidInput malformed request data
	ErrInvalidInput = errors.New("invalid input")

	// ErrHoldExpired payment outcome arrived after the hold TTL
	ErrHoldExpired = errors.New("hold expired")

	// ErrResourceInactive resource instance is retired from the catalog
	ErrResourceInactive = errors.New("resource inactive")
)

var taxonomy = []error{
	ErrInvalidWindow,
	ErrConflict,
	ErrAlreadyHeld,
	ErrNotFound,
	ErrPartialBatchFailure,
	ErrUnavailable,
	ErrNonPositiveDuration,
	ErrUnknownRateTier,
	ErrUnknownResourceType,
	ErrInvalidInput,
	ErrHoldExpired,
	ErrResourceInactive,
}

// AsUnavailable returns engine errors unchanged and wraps anything else
// (transaction begin/commit, serialization failures) in ErrUnavailable.
func AsUnavailable(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range taxonomy {
		if errors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
