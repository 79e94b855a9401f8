package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the live event tickets are scanned against.
type Event struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Venue     string    `gorm:"not null;size:255" json:"venue"`
	StartsAt  time.Time `gorm:"not null" json:"starts_at"`
	EndsAt    time.Time `gorm:"not null" json:"ends_at"`
	Status    Status    `gorm:"type:varchar(20);default:'UPCOMING'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Event
func (Event) TableName() string {
	return "events"
}
