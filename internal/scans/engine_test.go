package scans

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryQueue implements Queue in memory with the same pending-only
// transition guard as the database-backed queue.
type memoryQueue struct {
	mu          sync.Mutex
	entries     map[string]*QueuedScan
	order       []string
	transitions int
}

func newMemoryQueue(scans ...QueuedScan) *memoryQueue {
	q := &memoryQueue{entries: make(map[string]*QueuedScan)}
	for i := range scans {
		scan := scans[i]
		if scan.Status == "" {
			scan.Status = QueuedPending
		}
		q.entries[scan.LocalID] = &scan
		q.order = append(q.order, scan.LocalID)
	}
	return q
}

func (q *memoryQueue) Enqueue(ctx context.Context, scan *QueuedScan) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.entries[scan.LocalID]; ok {
		return ErrDuplicateLocalID
	}
	if scan.Status == "" {
		scan.Status = QueuedPending
	}
	stored := *scan
	q.entries[scan.LocalID] = &stored
	q.order = append(q.order, scan.LocalID)
	return nil
}

func (q *memoryQueue) Pending(ctx context.Context) ([]QueuedScan, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var pending []QueuedScan
	for _, id := range q.order {
		if entry := q.entries[id]; entry.Status == QueuedPending {
			pending = append(pending, *entry)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].CapturedAt.Before(pending[j].CapturedAt)
	})
	return pending, nil
}

func (q *memoryQueue) Get(ctx context.Context, localID string) (*QueuedScan, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	entry, ok := q.entries[localID]
	if !ok {
		return nil, ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (q *memoryQueue) MarkSynced(ctx context.Context, localID string, message string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	entry, ok := q.entries[localID]
	if !ok {
		return ErrEntryNotFound
	}
	if entry.Status != QueuedPending {
		return ErrAlreadyTerminal
	}
	now := time.Now().UTC()
	entry.Status = QueuedSynced
	entry.ResultMessage = message
	entry.SyncedAt = &now
	q.transitions++
	return nil
}

func (q *memoryQueue) MarkFailed(ctx context.Context, localID string, reason RejectionReason, message string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	entry, ok := q.entries[localID]
	if !ok {
		return ErrEntryNotFound
	}
	if entry.Status != QueuedPending {
		return ErrAlreadyTerminal
	}
	entry.Status = QueuedFailed
	entry.FailureReason = reason.String()
	entry.ResultMessage = message
	q.transitions++
	return nil
}

func (q *memoryQueue) IncrementAttempts(ctx context.Context, localID string) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	entry, ok := q.entries[localID]
	if !ok || entry.Status != QueuedPending {
		return 0, ErrAlreadyTerminal
	}
	entry.Attempts++
	q.transitions++
	return entry.Attempts, nil
}

func (q *memoryQueue) Stats(ctx context.Context) (*QueueStats, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	stats := &QueueStats{Total: int64(len(q.entries))}
	for _, entry := range q.entries {
		if entry.Status == QueuedPending {
			stats.Pending++
		}
	}
	return stats, nil
}

type resolverFunc func(ctx context.Context, scan QueuedScan) (*ConflictCheckResult, error)

func (f resolverFunc) Check(ctx context.Context, scan QueuedScan) (*ConflictCheckResult, error) {
	return f(ctx, scan)
}

type submitterFunc func(ctx context.Context, scan QueuedScan) (*ScanAttemptResult, error)

func (f submitterFunc) Submit(ctx context.Context, scan QueuedScan) (*ScanAttemptResult, error) {
	return f(ctx, scan)
}

func noConflictResolver() ConflictResolver {
	return resolverFunc(func(ctx context.Context, scan QueuedScan) (*ConflictCheckResult, error) {
		return &ConflictCheckResult{HasConflict: false}, nil
	})
}

func acceptingSubmitter() Submitter {
	return submitterFunc(func(ctx context.Context, scan QueuedScan) (*ScanAttemptResult, error) {
		return &ScanAttemptResult{
			Success:      true,
			Message:      "scan accepted",
			TicketNumber: scan.TicketCode,
			ScanCount:    1,
		}, nil
	})
}

func TestSyncMarksSuccessfulEntriesSynced(t *testing.T) {
	base := timeNowUTC()
	queue := newMemoryQueue(
		queuedScan("local-1", "TICKET-1", base),
		queuedScan("local-2", "TICKET-2", base.Add(time.Second)),
	)
	engine := NewEngine(queue, noConflictResolver(), acceptingSubmitter(), EngineConfig{})

	summary, err := engine.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 0, summary.Failed)

	for _, localID := range []string{"local-1", "local-2"} {
		entry, err := queue.Get(context.Background(), localID)
		require.NoError(t, err)
		assert.Equal(t, QueuedSynced, entry.Status)
		assert.Equal(t, "scan accepted", entry.ResultMessage)
		assert.NotNil(t, entry.SyncedAt)
	}
}

func TestSyncFailsConflictingEntry(t *testing.T) {
	base := timeNowUTC()
	queue := newMemoryQueue(
		queuedScan("local-1", "TICKET-1", base),
		queuedScan("local-2", "TICKET-2", base.Add(time.Second)),
	)
	resolver := resolverFunc(func(ctx context.Context, scan QueuedScan) (*ConflictCheckResult, error) {
		if scan.TicketCode == "TICKET-2" {
			return &ConflictCheckResult{
				HasConflict: true,
				Resolution:  &ConflictResolution{Action: ResolutionReject, Reason: "already used"},
			}, nil
		}
		return &ConflictCheckResult{HasConflict: false}, nil
	})
	engine := NewEngine(queue, resolver, acceptingSubmitter(), EngineConfig{})

	summary, err := engine.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Successful)
	assert.Equal(t, 1, summary.Failed)

	entry, err := queue.Get(context.Background(), "local-2")
	require.NoError(t, err)
	assert.Equal(t, QueuedFailed, entry.Status)
	assert.Equal(t, ReasonConflict.String(), entry.FailureReason)

	var conflicted SyncItemResult
	for _, res := range summary.Results {
		if res.LocalID == "local-2" {
			conflicted = res
		}
	}
	assert.False(t, conflicted.Success)
	assert.Equal(t, ReasonConflict, conflicted.RejectionReason)
	assert.Equal(t, "ticket state changed since capture: already used", conflicted.Message)
}

func TestSyncLeavesTransientFailurePending(t *testing.T) {
	queue := newMemoryQueue(queuedScan("local-1", "TICKET-1", timeNowUTC()))
	submitter := submitterFunc(func(ctx context.Context, scan QueuedScan) (*ScanAttemptResult, error) {
		return nil, errors.New("connection refused")
	})
	engine := NewEngine(queue, noConflictResolver(), submitter, EngineConfig{MaxRetries: 5})

	summary, err := engine.Sync(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	assert.False(t, summary.Results[0].Success)
	assert.Equal(t, ReasonTransient, summary.Results[0].RejectionReason)
	assert.Equal(t, "temporary failure, scan left pending for retry", summary.Results[0].Message)

	entry, err := queue.Get(context.Background(), "local-1")
	require.NoError(t, err)
	assert.Equal(t, QueuedPending, entry.Status)
	assert.Equal(t, 1, entry.Attempts)
}

func TestSyncGivesUpAfterMaxRetries(t *testing.T) {
	scan := queuedScan("local-1", "TICKET-1", timeNowUTC())
	scan.Attempts = 2
	queue := newMemoryQueue(scan)
	submitter := submitterFunc(func(ctx context.Context, scan QueuedScan) (*ScanAttemptResult, error) {
		return nil, errors.New("connection refused")
	})
	engine := NewEngine(queue, noConflictResolver(), submitter, EngineConfig{MaxRetries: 3})

	summary, err := engine.Sync(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	assert.Contains(t, summary.Results[0].Message, "gave up after 3 attempts")

	entry, err := queue.Get(context.Background(), "local-1")
	require.NoError(t, err)
	assert.Equal(t, QueuedFailed, entry.Status)
	assert.Equal(t, ReasonTransient.String(), entry.FailureReason)
}

func TestSyncFailsBatchDuplicates(t *testing.T) {
	base := timeNowUTC()
	queue := newMemoryQueue(
		queuedScan("local-1", "TICKET-1", base),
		queuedScan("local-2", "TICKET-1", base.Add(time.Second)),
	)
	engine := NewEngine(queue, noConflictResolver(), acceptingSubmitter(), EngineConfig{})

	summary, err := engine.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Successful)
	assert.Equal(t, 1, summary.Failed)

	winner, err := queue.Get(context.Background(), "local-1")
	require.NoError(t, err)
	assert.Equal(t, QueuedSynced, winner.Status)

	dup, err := queue.Get(context.Background(), "local-2")
	require.NoError(t, err)
	assert.Equal(t, QueuedFailed, dup.Status)
	assert.Equal(t, ReasonDuplicate.String(), dup.FailureReason)
}

func TestSyncRejectsConcurrentPass(t *testing.T) {
	queue := newMemoryQueue(queuedScan("local-1", "TICKET-1", timeNowUTC()))
	entered := make(chan struct{})
	release := make(chan struct{})
	submitter := submitterFunc(func(ctx context.Context, scan QueuedScan) (*ScanAttemptResult, error) {
		close(entered)
		<-release
		return &ScanAttemptResult{Success: true, Message: "scan accepted"}, nil
	})
	engine := NewEngine(queue, noConflictResolver(), submitter, EngineConfig{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := engine.Sync(context.Background())
		assert.NoError(t, err)
	}()

	<-entered
	_, err := engine.Sync(context.Background())
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(release)
	<-done
}

func TestProcessBatchDoesNotTouchQueue(t *testing.T) {
	queue := newMemoryQueue()
	engine := NewEngine(queue, noConflictResolver(), acceptingSubmitter(), EngineConfig{})

	base := timeNowUTC()
	batch := []QueuedScan{
		queuedScan("device-1", "TICKET-1", base),
		queuedScan("device-2", "TICKET-1", base.Add(time.Second)),
		queuedScan("device-3", "TICKET-2", base.Add(2*time.Second)),
	}

	summary := engine.ProcessBatch(context.Background(), batch)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, queue.transitions)

	stats, err := queue.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
}

func TestSyncStopsOnContextCancel(t *testing.T) {
	base := timeNowUTC()
	queue := newMemoryQueue(
		queuedScan("local-1", "TICKET-1", base),
		queuedScan("local-2", "TICKET-2", base.Add(time.Second)),
	)
	ctx, cancel := context.WithCancel(context.Background())
	submitter := submitterFunc(func(ctx context.Context, scan QueuedScan) (*ScanAttemptResult, error) {
		cancel()
		return &ScanAttemptResult{Success: true, Message: "scan accepted"}, nil
	})
	engine := NewEngine(queue, noConflictResolver(), submitter, EngineConfig{})

	summary, err := engine.Sync(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, "local-1", summary.Results[0].LocalID)

	entry, getErr := queue.Get(context.Background(), "local-2")
	require.NoError(t, getErr)
	assert.Equal(t, QueuedPending, entry.Status)
}

func TestSyncProcessesInCaptureOrder(t *testing.T) {
	base := timeNowUTC()
	later := queuedScan("local-late", "TICKET-1", base.Add(time.Minute))
	earlier := queuedScan("local-early", "TICKET-2", base)
	queue := newMemoryQueue(later, earlier)

	var submitted []string
	submitter := submitterFunc(func(ctx context.Context, scan QueuedScan) (*ScanAttemptResult, error) {
		submitted = append(submitted, scan.LocalID)
		return &ScanAttemptResult{Success: true, Message: "scan accepted"}, nil
	})
	engine := NewEngine(queue, noConflictResolver(), submitter, EngineConfig{})

	_, err := engine.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"local-early", "local-late"}, submitted)
}
