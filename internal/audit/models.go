package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ScanEvent is one append-only audit record of an admission attempt. Rows
// are only ever inserted; nothing in the service updates or deletes them.
type ScanEvent struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ScannerID       string    `gorm:"index;not null;size:64" json:"scanner_id"`
	TicketCode      string    `gorm:"index;not null;size:128" json:"ticket_code"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	Method          string    `gorm:"type:varchar(10)" json:"method"`
	Operation       string    `gorm:"type:varchar(10)" json:"operation"`
	IsValid         bool      `gorm:"not null" json:"is_valid"`
	RejectionReason string    `gorm:"size:40" json:"rejection_reason,omitempty"`
	DeviceInfo      string    `gorm:"size:255" json:"device_info,omitempty"`
	RecordedAt      time.Time `gorm:"index;not null" json:"recorded_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName sets the table name for ScanEvent
func (ScanEvent) TableName() string {
	return "scan_events"
}

// ToJSON serializes the event for the Kafka feed.
func (e *ScanEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON deserializes an event from the Kafka feed.
func FromJSON(data []byte) (*ScanEvent, error) {
	var event ScanEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// PartitionKey routes all events for one ticket to the same partition so
// downstream consumers observe them in order.
func (e *ScanEvent) PartitionKey() string {
	return e.TicketCode
}
