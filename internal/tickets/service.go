package tickets

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"admitly/internal/shared/constants"
	"admitly/pkg/cache"
	"admitly/pkg/logger"

	"github.com/google/uuid"
)

// Service interface defines the contract for ticket business logic
type Service interface {
	GetByCode(ctx context.Context, code string) (*Ticket, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]Ticket, int64, error)

	// Snapshot returns a read-only view of current ticket state, served
	// cache-aside. Safe to call speculatively; never consumes an admission.
	Snapshot(ctx context.Context, code string) (*Snapshot, error)

	// Admit records one admission atomically and invalidates the cached
	// snapshot for the credential.
	Admit(ctx context.Context, code string) (*Ticket, error)
}

// service implements the Service interface
type service struct {
	repo        Repository
	cache       cache.Service
	snapshotTTL time.Duration
	logger      *logger.Logger
}

// NewService creates a new ticket service instance
func NewService(repo Repository, cacheService cache.Service, snapshotTTL time.Duration) Service {
	if snapshotTTL <= 0 {
		snapshotTTL = constants.TTL_TICKET_SNAPSHOT
	}
	return &service{
		repo:        repo,
		cache:       cacheService,
		snapshotTTL: snapshotTTL,
		logger:      logger.GetDefault(),
	}
}

func (s *service) GetByCode(ctx context.Context, code string) (*Ticket, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByEventID(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]Ticket, int64, error) {
	return s.repo.GetByEventID(ctx, eventID, limit, offset)
}

func (s *service) Snapshot(ctx context.Context, code string) (*Snapshot, error) {
	if s.cache != nil {
		var snap Snapshot
		err := s.cache.Get(ctx, s.snapshotKey(code), &snap)
		if err == nil {
			return &snap, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			// Cache trouble is not fatal for a read; fall through to the store.
			s.logger.Warn("ticket snapshot cache read failed", slog.String("error", err.Error()))
		}
	}

	ticket, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	snap := ticket.ToSnapshot()
	if s.cache != nil {
		if err := s.cache.Set(ctx, s.snapshotKey(code), snap, s.snapshotTTL); err != nil {
			s.logger.Warn("ticket snapshot cache write failed", slog.String("error", err.Error()))
		}
	}
	return &snap, nil
}

func (s *service) Admit(ctx context.Context, code string) (*Ticket, error) {
	ticket, err := s.repo.AtomicAdmit(ctx, code)
	if err != nil {
		return nil, err
	}

	// A stale cached snapshot would let a replayed offline scan pass the
	// conflict check it should fail, so drop it eagerly.
	if s.cache != nil {
		if err := s.cache.Delete(ctx, s.snapshotKey(code)); err != nil {
			s.logger.Warn("ticket snapshot cache invalidation failed", slog.String("error", err.Error()))
		}
	}
	return ticket, nil
}

func (s *service) snapshotKey(code string) string {
	return constants.BuildTicketSnapshotKey(code)
}
