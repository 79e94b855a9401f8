package database

import (
	"admitly/internal/audit"
	"admitly/internal/auth"
	"admitly/internal/events"
	"admitly/internal/scans"
	"admitly/internal/tickets"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&auth.Scanner{},
		&events.Event{},
		&tickets.Ticket{},
		&scans.QueuedScan{},
		&audit.ScanEvent{},
	); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
