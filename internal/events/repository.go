package events

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no event matches the id.
var ErrNotFound = errors.New("event not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	List(ctx context.Context, limit, offset int) ([]Event, int64, error)
	Create(ctx context.Context, event *Event) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Event, int64, error) {
	var events []Event
	var totalCount int64

	if limit <= 0 {
		limit = 20
	}

	if err := r.db.WithContext(ctx).Model(&Event{}).Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("starts_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error

	return events, totalCount, err
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}
