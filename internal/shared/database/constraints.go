package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// Unique constraint so each client-generated scan id lands exactly once
	err := db.Exec(`
		ALTER TABLE queued_scans
		ADD CONSTRAINT IF NOT EXISTS unique_queued_scan_local_id
		UNIQUE (local_id);
	`).Error
	if err != nil {
		return err
	}

	// Index for draining pending scans in capture order
	err = db.Exec(`
		CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_queued_scans_status_captured_at
		ON queued_scans (status, captured_at);
	`).Error
	if err != nil {
		return err
	}

	// Index for per-ticket audit lookups
	err = db.Exec(`
		CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_scan_events_ticket_code
		ON scan_events (ticket_code, recorded_at);
	`).Error
	if err != nil {
		return err
	}

	// Index for per-scanner audit lookups
	err = db.Exec(`
		CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_scan_events_scanner_id
		ON scan_events (scanner_id, recorded_at);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
