package scans

import (
	"time"

	"admitly/internal/tickets"

	"github.com/google/uuid"
)

// QueuedScan is one admission attempt captured without a confirmed server
// acknowledgment. Only the sync engine and the reconciler transition it;
// entries are never deleted while pending.
type QueuedScan struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LocalID       string       `gorm:"uniqueIndex;not null;size:64" json:"local_id"`
	TicketCode    string       `gorm:"index;not null;size:128" json:"ticket_code"`
	ScannerID     string       `gorm:"not null;size:64" json:"scanner_id"`
	Latitude      *float64     `json:"latitude,omitempty"`
	Longitude     *float64     `json:"longitude,omitempty"`
	Method        Method       `gorm:"type:varchar(10);default:'QR'" json:"method"`
	DeviceInfo    string       `gorm:"size:255" json:"device_info,omitempty"`
	CapturedAt    time.Time    `gorm:"index;not null" json:"captured_at"`
	Attempts      int          `gorm:"not null;default:0" json:"attempts"`
	Status        QueuedStatus `gorm:"type:varchar(10);default:'PENDING';index" json:"status"`
	FailureReason string       `gorm:"size:40" json:"failure_reason,omitempty"`
	ResultMessage string       `gorm:"size:255" json:"result_message,omitempty"`
	SyncedAt      *time.Time   `json:"synced_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// TableName sets the table name for QueuedScan
func (QueuedScan) TableName() string {
	return "queued_scans"
}

// IsTerminal reports whether the entry has reached a final state.
func (q *QueuedScan) IsTerminal() bool {
	return q.Status.IsTerminal()
}

// ScanAttemptResult is the outcome of one admission attempt.
type ScanAttemptResult struct {
	Success         bool            `json:"success"`
	Message         string          `json:"message"`
	RejectionReason RejectionReason `json:"rejection_reason,omitempty"`
	TicketNumber    string          `json:"ticket_number,omitempty"`
	ScanCount       int             `json:"scan_count,omitempty"`
}

// ResolutionAction says what to do with a queued scan after a conflict check.
type ResolutionAction string

const (
	ResolutionAccept ResolutionAction = "accept"
	ResolutionReject ResolutionAction = "reject"
)

// ConflictResolution carries the verdict for a conflicting queued scan.
type ConflictResolution struct {
	Action ResolutionAction `json:"action"`
	Reason string           `json:"reason"`
}

// ConflictCheckResult reports whether a queued scan is still valid against
// current server state. Produced without any mutation.
type ConflictCheckResult struct {
	HasConflict bool                `json:"has_conflict"`
	Resolution  *ConflictResolution `json:"resolution,omitempty"`
	Ticket      *tickets.Snapshot   `json:"ticket,omitempty"`
}

// SyncItemResult maps one local scan id back to its reconciled outcome.
type SyncItemResult struct {
	LocalID         string          `json:"local_id"`
	TicketCode      string          `json:"ticket_code"`
	Success         bool            `json:"success"`
	Message         string          `json:"message"`
	RejectionReason RejectionReason `json:"rejection_reason,omitempty"`
	ScanCount       int             `json:"scan_count,omitempty"`
}

// SyncSummary is the outcome of one sync pass over a batch.
type SyncSummary struct {
	Total      int              `json:"total"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Results    []SyncItemResult `json:"results"`
}

// ReconcileSummary is the outcome of a full reconciliation pass.
type ReconcileSummary struct {
	Checked   int          `json:"checked"`
	Conflicts int          `json:"conflicts"`
	Sync      *SyncSummary `json:"sync,omitempty"`
}

// QueueStats reports the size of the offline queue.
type QueueStats struct {
	Pending int64 `json:"pending"`
	Total   int64 `json:"total"`
}
