package scans

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"admitly/pkg/logger"
)

// Reconciler is the bulk consistency pass for long offline periods: it runs
// the conflict check across the entire pending queue first, pre-emptively
// failing entries the server has since invalidated, and hands the remainder
// to the sync engine. Checking before attempting a write avoids wasted
// mutation attempts and reports conflicts distinctly from ordinary sync
// failures.
type Reconciler struct {
	queue    Queue
	resolver ConflictResolver
	engine   *Engine
	logger   *logger.Logger
}

// NewReconciler creates a new reconciler instance
func NewReconciler(queue Queue, resolver ConflictResolver, engine *Engine) *Reconciler {
	return &Reconciler{
		queue:    queue,
		resolver: resolver,
		engine:   engine,
		logger:   logger.GetDefault(),
	}
}

// Reconcile checks every pending entry against current server state, fails
// the stale ones, then syncs what survived. Entries whose check hits a
// transient error are left pending untouched; the engine will retry them.
func (r *Reconciler) Reconcile(ctx context.Context) (*ReconcileSummary, error) {
	pending, err := r.queue.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending queue: %w", err)
	}

	summary := &ReconcileSummary{Checked: len(pending)}

	for _, scan := range pending {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		check, err := r.resolver.Check(ctx, scan)
		if err != nil {
			r.logger.Warn("conflict pre-check skipped",
				slog.String("local_id", scan.LocalID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if !check.HasConflict {
			continue
		}

		summary.Conflicts++
		r.logger.LogConflictDetected(ctx, scan.LocalID, scan.TicketCode, check.Resolution.Reason)
		err = r.queue.MarkFailed(ctx, scan.LocalID, ReasonConflict, check.Resolution.Reason)
		if err != nil && !errors.Is(err, ErrAlreadyTerminal) {
			r.logger.Error("failed to fail conflicting scan",
				slog.String("local_id", scan.LocalID),
				slog.String("error", err.Error()),
			)
		}
	}

	sync, err := r.engine.Sync(ctx)
	if err != nil && !errors.Is(err, ErrSyncInProgress) {
		return summary, err
	}
	summary.Sync = sync

	synced := 0
	if sync != nil {
		synced = sync.Successful
	}
	r.logger.LogReconcileCompleted(ctx, summary.Checked, summary.Conflicts, synced)
	return summary, nil
}

// VerifyServerState is a read-only diagnostic: it reports whether the given
// queued scan would still be accepted, without consuming an admission or
// transitioning the entry.
func (r *Reconciler) VerifyServerState(ctx context.Context, localID string) (*ConflictCheckResult, error) {
	scan, err := r.queue.Get(ctx, localID)
	if err != nil {
		return nil, err
	}
	return r.resolver.Check(ctx, *scan)
}
