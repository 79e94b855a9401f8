// internal/auth/repository.go
package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	CreateScanner(ctx context.Context, scanner *Scanner) error
	GetByDeviceID(ctx context.Context, deviceID string) (*Scanner, error)
	GetByID(ctx context.Context, id string) (*Scanner, error)
	DeviceIDExists(ctx context.Context, deviceID string) (bool, error)
	Deactivate(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

func (r *repository) CreateScanner(ctx context.Context, scanner *Scanner) error {
	if err := r.db.WithContext(ctx).Create(scanner).Error; err != nil {
		return err
	}
	return nil
}

func (r *repository) GetByDeviceID(ctx context.Context, deviceID string) (*Scanner, error) {
	var scanner Scanner
	err := r.db.WithContext(ctx).Where("device_id = ?", deviceID).First(&scanner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScannerNotFound
		}
		return nil, err
	}
	return &scanner, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Scanner, error) {
	var scanner Scanner
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&scanner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScannerNotFound
		}
		return nil, err
	}
	return &scanner, nil
}

func (r *repository) DeviceIDExists(ctx context.Context, deviceID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Scanner{}).Where("device_id = ?", deviceID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Deactivate(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&Scanner{}).
		Where("id = ?", id).
		Update("active", false)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrScannerNotFound
	}

	return nil
}
