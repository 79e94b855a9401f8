package scans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrDuplicateLocalID is returned when an enqueue would overwrite an entry.
var ErrDuplicateLocalID = errors.New("queued scan with this local id already exists")

// ErrAlreadyTerminal is returned when a transition targets an entry that has
// already reached SYNCED or FAILED. Terminal entries are immutable.
var ErrAlreadyTerminal = errors.New("queued scan is already in a terminal state")

// ErrEntryNotFound is returned when no queue entry matches the local id.
var ErrEntryNotFound = errors.New("queued scan not found")

// Queue is the durable store of scan attempts not yet confirmed by the
// server. It survives process restarts; entries are transitioned, never
// deleted, and terminal entries drop out of Pending.
type Queue interface {
	Enqueue(ctx context.Context, scan *QueuedScan) error
	Pending(ctx context.Context) ([]QueuedScan, error)
	Get(ctx context.Context, localID string) (*QueuedScan, error)
	MarkSynced(ctx context.Context, localID string, message string) error
	MarkFailed(ctx context.Context, localID string, reason RejectionReason, message string) error
	IncrementAttempts(ctx context.Context, localID string) (int, error)
	Stats(ctx context.Context) (*QueueStats, error)
}

type queueRepository struct {
	db *gorm.DB
}

// NewQueue creates a database-backed offline queue.
func NewQueue(db *gorm.DB) Queue {
	return &queueRepository{db: db}
}

func (r *queueRepository) Enqueue(ctx context.Context, scan *QueuedScan) error {
	if scan.CapturedAt.IsZero() {
		scan.CapturedAt = time.Now().UTC()
	}
	if scan.Status == "" {
		scan.Status = QueuedPending
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&QueuedScan{}).
		Where("local_id = ?", scan.LocalID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check queue for local id: %w", err)
	}
	if count > 0 {
		return ErrDuplicateLocalID
	}

	if err := r.db.WithContext(ctx).Create(scan).Error; err != nil {
		return translateEnqueueError(err)
	}
	return nil
}

// translateEnqueueError maps a unique violation on local_id to the domain
// error. The pre-insert count races against concurrent inserts, so the
// constraint itself is the authority; local_id is the only unique column
// besides the random primary key.
func translateEnqueueError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateLocalID
	}
	return fmt.Errorf("failed to enqueue scan: %w", err)
}

func (r *queueRepository) Pending(ctx context.Context) ([]QueuedScan, error) {
	var scans []QueuedScan
	err := r.db.WithContext(ctx).
		Where("status = ?", QueuedPending).
		Order("captured_at ASC").
		Find(&scans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load pending scans: %w", err)
	}
	return scans, nil
}

func (r *queueRepository) Get(ctx context.Context, localID string) (*QueuedScan, error) {
	var scan QueuedScan
	err := r.db.WithContext(ctx).Where("local_id = ?", localID).First(&scan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &scan, nil
}

func (r *queueRepository) MarkSynced(ctx context.Context, localID string, message string) error {
	now := time.Now().UTC()
	return r.transition(ctx, localID, map[string]interface{}{
		"status":         QueuedSynced,
		"result_message": message,
		"synced_at":      &now,
		"updated_at":     now,
	})
}

func (r *queueRepository) MarkFailed(ctx context.Context, localID string, reason RejectionReason, message string) error {
	return r.transition(ctx, localID, map[string]interface{}{
		"status":         QueuedFailed,
		"failure_reason": reason.String(),
		"result_message": message,
		"updated_at":     time.Now().UTC(),
	})
}

// transition applies a terminal transition guarded on the entry still being
// pending. The guard makes a second concurrent pass over an already-terminal
// entry a no-op at the storage boundary.
func (r *queueRepository) transition(ctx context.Context, localID string, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&QueuedScan{}).
		Where("local_id = ? AND status = ?", localID, QueuedPending).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to transition queued scan: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&QueuedScan{}).
			Where("local_id = ?", localID).
			Count(&count).Error; err == nil && count == 0 {
			return ErrEntryNotFound
		}
		return ErrAlreadyTerminal
	}
	return nil
}

func (r *queueRepository) IncrementAttempts(ctx context.Context, localID string) (int, error) {
	res := r.db.WithContext(ctx).
		Model(&QueuedScan{}).
		Where("local_id = ? AND status = ?", localID, QueuedPending).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to bump attempt counter: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrAlreadyTerminal
	}

	scan, err := r.Get(ctx, localID)
	if err != nil {
		return 0, err
	}
	return scan.Attempts, nil
}

func (r *queueRepository) Stats(ctx context.Context) (*QueueStats, error) {
	var stats QueueStats

	err := r.db.WithContext(ctx).
		Model(&QueuedScan{}).
		Count(&stats.Total).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count queue entries: %w", err)
	}

	err = r.db.WithContext(ctx).
		Model(&QueuedScan{}).
		Where("status = ?", QueuedPending).
		Count(&stats.Pending).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pending entries: %w", err)
	}

	return &stats, nil
}
