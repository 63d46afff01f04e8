package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the referenced record does not exist. Callers map it
	// to 404; it is never retryable.
	ErrNotFound = errors.New("record not found")

	// ErrStoreUnavailable wraps any unexpected persistence failure. Transient —
	// safe to retry with backoff. Never returned for missing records.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// translate converts raw GORM errors into the repository error taxonomy so
// services never depend on gorm sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
