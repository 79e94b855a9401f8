package audit

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Store is the append-only persistence behind the audit sink.
type Store interface {
	Append(ctx context.Context, event *ScanEvent) error
	ListByTicket(ctx context.Context, ticketCode string, limit int) ([]ScanEvent, error)
	ListByScanner(ctx context.Context, scannerID string, limit int) ([]ScanEvent, error)
}

type store struct {
	db *gorm.DB
}

// NewStore creates a new audit store instance
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Append(ctx context.Context, event *ScanEvent) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to append scan event: %w", err)
	}
	return nil
}

func (s *store) ListByTicket(ctx context.Context, ticketCode string, limit int) ([]ScanEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	var events []ScanEvent
	err := s.db.WithContext(ctx).
		Where("ticket_code = ?", ticketCode).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scan events: %w", err)
	}
	return events, nil
}

func (s *store) ListByScanner(ctx context.Context, scannerID string, limit int) ([]ScanEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	var events []ScanEvent
	err := s.db.WithContext(ctx).
		Where("scanner_id = ?", scannerID).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scan events: %w", err)
	}
	return events, nil
}
