package audit

import (
	"context"
	"log/slog"

	"admitly/internal/scans"
	"admitly/pkg/logger"

	"github.com/google/uuid"
)

// Service is the scan audit sink: append-only persistence plus an optional
// Kafka fan-out. It satisfies the admission core's AuditRecorder contract.
type Service interface {
	RecordScan(ctx context.Context, rec scans.AuditRecord) error
	ListByTicket(ctx context.Context, ticketCode string, limit int) ([]ScanEvent, error)
	ListByScanner(ctx context.Context, scannerID string, limit int) ([]ScanEvent, error)
}

type service struct {
	store    Store
	producer EventProducer
	logger   *logger.Logger
}

// NewService creates a new audit service instance. The producer may be nil
// when no Kafka feed is configured; the store is required.
func NewService(store Store, producer EventProducer) Service {
	return &service{
		store:    store,
		producer: producer,
		logger:   logger.GetDefault(),
	}
}

func (s *service) RecordScan(ctx context.Context, rec scans.AuditRecord) error {
	event := &ScanEvent{
		ID:              uuid.New(),
		ScannerID:       rec.ScannerID,
		TicketCode:      rec.TicketCode,
		Latitude:        rec.Latitude,
		Longitude:       rec.Longitude,
		Method:          string(rec.Method),
		Operation:       rec.Operation.String(),
		IsValid:         rec.IsValid,
		RejectionReason: rec.RejectionReason,
		DeviceInfo:      rec.DeviceInfo,
		RecordedAt:      rec.RecordedAt,
	}

	if err := s.store.Append(ctx, event); err != nil {
		return err
	}

	// The feed is best-effort; the durable record is already written.
	if s.producer != nil {
		if err := s.producer.Publish(ctx, event); err != nil {
			s.logger.Warn("scan event feed publish failed",
				slog.String("ticket_code", event.TicketCode),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

func (s *service) ListByTicket(ctx context.Context, ticketCode string, limit int) ([]ScanEvent, error) {
	return s.store.ListByTicket(ctx, ticketCode, limit)
}

func (s *service) ListByScanner(ctx context.Context, scannerID string, limit int) ([]ScanEvent, error) {
	return s.store.ListByScanner(ctx, scannerID, limit)
}
