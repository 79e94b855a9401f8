package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Read operations
	GetByCode(ctx context.Context, code string) (*Ticket, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]Ticket, int64, error)

	// Write operations
	Create(ctx context.Context, ticket *Ticket) error

	// Concurrency-safe admission
	AtomicAdmit(ctx context.Context, code string) (*Ticket, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) GetByEventID(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]Ticket, int64, error) {
	var tickets []Ticket
	var totalCount int64

	if limit <= 0 {
		limit = 50
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("event_id = ?", eventID)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := baseQuery.
		Order("ticket_number ASC").
		Offset(offset).
		Limit(limit).
		Find(&tickets).Error

	return tickets, totalCount, err
}

func (r *repository) Create(ctx context.Context, ticket *Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

// lockForUpdate takes the row lock the admission read-modify-write depends
// on. Racing admits serialize here; the UPDATE commits before the lock is
// released.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// AtomicAdmit records one admission against the ticket identified by code.
// The read-modify-write of scan_count happens under a row lock so that two
// scanners racing on the same ticket serialize: exactly one sees success,
// the other gets LimitReachedError.
func (r *repository) AtomicAdmit(ctx context.Context, code string) (*Ticket, error) {
	var admitted Ticket

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket Ticket

		// 1. Lock the ticket row for update
		err := lockForUpdate(tx).
			Where("code = ?", code).
			First(&ticket).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock ticket: %w", err)
		}

		// 2. Status gate before the scan-limit gate
		if !ticket.Status.IsScanValid() {
			return &NotAdmissibleError{Status: ticket.Status}
		}

		// 3. Scan-limit gate
		if ticket.AtLimit() {
			return &LimitReachedError{ScanCount: ticket.ScanCount, MaxScans: ticket.MaxScans}
		}

		// 4. Record the admission
		now := time.Now().UTC()
		ticket.ScanCount++
		if ticket.FirstScanAt == nil {
			ticket.FirstScanAt = &now
		}
		ticket.LastScanAt = &now
		ticket.Status = DeriveAfterScan(ticket.Status, ticket.ScanCount, ticket.MaxScans)
		ticket.UpdatedAt = now

		if err := tx.Model(&Ticket{}).
			Where("id = ?", ticket.ID).
			Updates(map[string]interface{}{
				"scan_count":    ticket.ScanCount,
				"status":        ticket.Status,
				"first_scan_at": ticket.FirstScanAt,
				"last_scan_at":  ticket.LastScanAt,
				"updated_at":    ticket.UpdatedAt,
			}).Error; err != nil {
			return fmt.Errorf("failed to record admission: %w", err)
		}

		admitted = ticket
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &admitted, nil
}
