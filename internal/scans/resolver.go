package scans

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"admitly/internal/tickets"
)

// SnapshotStore is the read-only view of the authoritative ticket store the
// conflict resolver needs (narrow interface to avoid pulling in the full
// ticket service contract).
type SnapshotStore interface {
	Snapshot(ctx context.Context, code string) (*tickets.Snapshot, error)
}

// ConflictResolver checks whether a previously captured scan is still valid
// against current authoritative state. It never mutates anything, so it is
// safe to call speculatively without consuming an admission.
type ConflictResolver interface {
	Check(ctx context.Context, scan QueuedScan) (*ConflictCheckResult, error)
}

type resolver struct {
	store SnapshotStore
}

// NewConflictResolver creates a new conflict resolver instance
func NewConflictResolver(store SnapshotStore) ConflictResolver {
	return &resolver{store: store}
}

// Check evaluates the decision table in order: unknown ticket, then status,
// then scan limit. A storage error is returned as-is and means the check
// could not be performed, not that a conflict exists.
func (r *resolver) Check(ctx context.Context, scan QueuedScan) (*ConflictCheckResult, error) {
	snap, err := r.store.Snapshot(ctx, scan.TicketCode)
	if err != nil {
		if errors.Is(err, tickets.ErrNotFound) {
			return &ConflictCheckResult{
				HasConflict: true,
				Resolution: &ConflictResolution{
					Action: ResolutionReject,
					Reason: "not found",
				},
			}, nil
		}
		return nil, fmt.Errorf("failed to fetch ticket snapshot: %w", err)
	}

	if !snap.Status.IsScanValid() {
		return &ConflictCheckResult{
			HasConflict: true,
			Resolution: &ConflictResolution{
				Action: ResolutionReject,
				Reason: strings.ToLower(snap.Status.String()),
			},
			Ticket: snap,
		}, nil
	}

	if snap.MaxScans > 0 && snap.ScanCount >= snap.MaxScans {
		return &ConflictCheckResult{
			HasConflict: true,
			Resolution: &ConflictResolution{
				Action: ResolutionReject,
				Reason: "already used",
			},
			Ticket: snap,
		}, nil
	}

	return &ConflictCheckResult{
		HasConflict: false,
		Ticket:      snap,
	}, nil
}
