package tickets

import (
	"time"

	"github.com/google/uuid"
)

// Ticket is the authoritative admission record for one credential.
// ScanCount is only ever changed through Repository.AtomicAdmit.
type Ticket struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"event_id"`
	TicketNumber string     `gorm:"unique;not null" json:"ticket_number"`
	Code         string     `gorm:"uniqueIndex;not null;size:128" json:"code"`
	HolderName   string     `gorm:"size:255" json:"holder_name"`
	Status       Status     `gorm:"type:varchar(20);default:'ISSUED'" json:"status"`
	ScanCount    int        `gorm:"not null;default:0;check:scan_count >= 0" json:"scan_count"`
	MaxScans     int        `gorm:"not null;default:1;check:max_scans >= 0" json:"max_scans"`
	FirstScanAt  *time.Time `json:"first_scan_at,omitempty"`
	LastScanAt   *time.Time `json:"last_scan_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName sets the table name for Ticket
func (Ticket) TableName() string {
	return "tickets"
}

// IsMultiScan reports whether the ticket allows more than one admission.
// MaxScans of zero means unlimited.
func (t *Ticket) IsMultiScan() bool {
	return t.MaxScans == 0 || t.MaxScans > 1
}

// RemainingScans returns how many admissions are left, or -1 for unlimited.
func (t *Ticket) RemainingScans() int {
	if t.MaxScans == 0 {
		return -1
	}
	remaining := t.MaxScans - t.ScanCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AtLimit reports whether the ticket has consumed all allowed admissions.
func (t *Ticket) AtLimit() bool {
	return t.MaxScans > 0 && t.ScanCount >= t.MaxScans
}

// Snapshot is a read-only view of ticket state used by scan validation.
type Snapshot struct {
	TicketNumber string `json:"ticket_number"`
	Status       Status `json:"status"`
	ScanCount    int    `json:"scan_count"`
	MaxScans     int    `json:"max_scans"`
}

// ToSnapshot converts a Ticket to its read-only view.
func (t *Ticket) ToSnapshot() Snapshot {
	return Snapshot{
		TicketNumber: t.TicketNumber,
		Status:       t.Status,
		ScanCount:    t.ScanCount,
		MaxScans:     t.MaxScans,
	}
}
