package tickets

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no ticket matches the presented credential.
var ErrNotFound = errors.New("ticket not found")

// NotAdmissibleError is returned when a ticket exists but its status
// forbids admission (revoked, refunded, or payment still pending).
type NotAdmissibleError struct {
	Status Status
}

func (e *NotAdmissibleError) Error() string {
	return fmt.Sprintf("ticket is not admissible: status %s", e.Status)
}

// LimitReachedError is returned when every allowed admission has already
// been consumed.
type LimitReachedError struct {
	ScanCount int
	MaxScans  int
}

func (e *LimitReachedError) Error() string {
	return fmt.Sprintf("ticket already used: %d of %d scans consumed", e.ScanCount, e.MaxScans)
}
