package scans

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"admitly/pkg/logger"
)

// ErrSyncInProgress is returned when a sync pass is requested while another
// one is still draining the queue. The caller simply tries again later; the
// running pass covers the same entries.
var ErrSyncInProgress = errors.New("sync pass already in progress")

// Submitter submits one surviving scan to the admission processor. A
// returned error is a transient failure; a result carries the terminal
// outcome.
type Submitter interface {
	Submit(ctx context.Context, scan QueuedScan) (*ScanAttemptResult, error)
}

type processorSubmitter struct {
	processor Processor
}

// NewProcessorSubmitter adapts the scan processor into a Submitter. The
// queued scan's local id doubles as the idempotency key, so a replayed
// submission of the same capture cannot consume a second admission.
func NewProcessorSubmitter(p Processor) Submitter {
	return &processorSubmitter{processor: p}
}

func (s *processorSubmitter) Submit(ctx context.Context, scan QueuedScan) (*ScanAttemptResult, error) {
	return s.processor.Process(ctx, ProcessRequest{
		TicketCode:     scan.TicketCode,
		ScannerID:      scan.ScannerID,
		Latitude:       scan.Latitude,
		Longitude:      scan.Longitude,
		Method:         scan.Method,
		DeviceInfo:     scan.DeviceInfo,
		IdempotencyKey: scan.LocalID,
	})
}

// EngineConfig tunes sync behavior.
type EngineConfig struct {
	// MaxRetries bounds how often a transiently failing entry is retried
	// before it is terminally failed, keeping the queue from growing
	// without limit under persistent connectivity loss.
	MaxRetries int

	// ItemDelay paces submissions so a reconnection burst does not
	// overwhelm the server. Deliberate backpressure, not an oversight.
	ItemDelay time.Duration
}

// Engine drains the offline queue against the server: deduplicate, check
// for conflicts, then submit the survivors in capture order.
type Engine struct {
	queue     Queue
	resolver  ConflictResolver
	submitter Submitter
	config    EngineConfig
	logger    *logger.Logger

	mu sync.Mutex
}

// NewEngine creates a new sync engine instance
func NewEngine(queue Queue, resolver ConflictResolver, submitter Submitter, config EngineConfig) *Engine {
	if config.MaxRetries <= 0 {
		config.MaxRetries = 5
	}
	return &Engine{
		queue:     queue,
		resolver:  resolver,
		submitter: submitter,
		config:    config,
		logger:    logger.GetDefault(),
	}
}

// Sync drains every pending entry in the queue. Only one pass runs at a
// time: a concurrent invocation (background timer racing a manual trigger)
// returns ErrSyncInProgress and is a no-op. Cancelling the context stops the
// pass between entries; anything not yet marked synced simply stays pending
// for the next pass, and progress already committed is kept.
func (e *Engine) Sync(ctx context.Context) (*SyncSummary, error) {
	if !e.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer e.mu.Unlock()

	pending, err := e.queue.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending queue: %w", err)
	}

	start := time.Now()
	summary := e.drain(ctx, pending, true)
	e.logger.LogSyncCompleted(ctx, summary.Total, summary.Successful, summary.Failed, time.Since(start))

	if ctx.Err() != nil {
		return summary, ctx.Err()
	}
	return summary, nil
}

// ProcessBatch handles a batch submitted over the wire by a device draining
// its own local queue. Queue transitions stay on the device; the server
// contribution is deduplication, conflict checking, and the atomic
// admissions, reported back per local id.
func (e *Engine) ProcessBatch(ctx context.Context, batch []QueuedScan) *SyncSummary {
	return e.drain(ctx, batch, false)
}

// drain runs the pipeline over one batch. When local is true the entries
// live in this process's queue and are transitioned as they resolve.
func (e *Engine) drain(ctx context.Context, batch []QueuedScan, local bool) *SyncSummary {
	summary := &SyncSummary{
		Total:   len(batch),
		Results: make([]SyncItemResult, 0, len(batch)),
	}
	if len(batch) == 0 {
		return summary
	}

	survivors, duplicates := Dedupe(batch)
	for _, dup := range duplicates {
		if local {
			e.failEntry(ctx, dup.LocalID, ReasonDuplicate, dup.Message)
		}
		summary.Results = append(summary.Results, dup)
	}

	// First physical scan wins even when entries were queued out of
	// submission order.
	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].CapturedAt.Before(survivors[j].CapturedAt)
	})

	for i, scan := range survivors {
		if ctx.Err() != nil {
			break
		}
		if i > 0 && e.config.ItemDelay > 0 {
			select {
			case <-time.After(e.config.ItemDelay):
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				break
			}
		}

		summary.Results = append(summary.Results, e.processEntry(ctx, scan, local))
	}

	for _, res := range summary.Results {
		if res.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	return summary
}

// processEntry resolves a single surviving entry. Failures here are
// isolated: whatever happens to this entry, the rest of the batch proceeds.
func (e *Engine) processEntry(ctx context.Context, scan QueuedScan, local bool) SyncItemResult {
	check, err := e.resolver.Check(ctx, scan)
	if err != nil {
		return e.handleTransient(ctx, scan, local, err)
	}

	if check.HasConflict {
		reason := check.Resolution.Reason
		e.logger.LogConflictDetected(ctx, scan.LocalID, scan.TicketCode, reason)
		if local {
			e.failEntry(ctx, scan.LocalID, ReasonConflict, reason)
		}
		return SyncItemResult{
			LocalID:         scan.LocalID,
			TicketCode:      scan.TicketCode,
			Success:         false,
			Message:         fmt.Sprintf("ticket state changed since capture: %s", reason),
			RejectionReason: ReasonConflict,
		}
	}

	result, err := e.submitter.Submit(ctx, scan)
	if err != nil {
		return e.handleTransient(ctx, scan, local, err)
	}

	item := SyncItemResult{
		LocalID:         scan.LocalID,
		TicketCode:      scan.TicketCode,
		Success:         result.Success,
		Message:         result.Message,
		RejectionReason: result.RejectionReason,
		ScanCount:       result.ScanCount,
	}

	if local {
		if result.Success {
			if err := e.queue.MarkSynced(ctx, scan.LocalID, result.Message); err != nil && !errors.Is(err, ErrAlreadyTerminal) {
				e.logger.Error("failed to mark scan synced",
					slog.String("local_id", scan.LocalID),
					slog.String("error", err.Error()),
				)
			}
		} else {
			e.failEntry(ctx, scan.LocalID, result.RejectionReason, result.Message)
		}
	}
	return item
}

// handleTransient leaves the entry pending for a later pass, bounded by the
// retry cap. Past the cap it becomes terminally failed so the queue cannot
// grow without limit.
func (e *Engine) handleTransient(ctx context.Context, scan QueuedScan, local bool, cause error) SyncItemResult {
	item := SyncItemResult{
		LocalID:         scan.LocalID,
		TicketCode:      scan.TicketCode,
		Success:         false,
		RejectionReason: ReasonTransient,
		Message:         "temporary failure, scan left pending for retry",
	}

	if !local {
		return item
	}

	attempts, err := e.queue.IncrementAttempts(ctx, scan.LocalID)
	if err != nil {
		if !errors.Is(err, ErrAlreadyTerminal) {
			e.logger.Error("failed to bump retry counter",
				slog.String("local_id", scan.LocalID),
				slog.String("error", err.Error()),
			)
		}
		return item
	}

	if attempts >= e.config.MaxRetries {
		item.Message = fmt.Sprintf("gave up after %d attempts: %v", attempts, cause)
		e.failEntry(ctx, scan.LocalID, ReasonTransient, item.Message)
	}
	return item
}

func (e *Engine) failEntry(ctx context.Context, localID string, reason RejectionReason, message string) {
	err := e.queue.MarkFailed(ctx, localID, reason, message)
	if err != nil && !errors.Is(err, ErrAlreadyTerminal) {
		e.logger.Error("failed to mark scan failed",
			slog.String("local_id", localID),
			slog.String("error", err.Error()),
		)
	}
}
