package scans

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"admitly/internal/tickets"
	"admitly/pkg/logger"
)

// TicketAdmitter is the narrow slice of the ticket service the processor
// needs: atomically record one admission against a credential.
type TicketAdmitter interface {
	Admit(ctx context.Context, code string) (*tickets.Ticket, error)
}

// AuditRecord is one append-only entry for the scan audit sink.
type AuditRecord struct {
	ScannerID       string
	TicketCode      string
	Latitude        *float64
	Longitude       *float64
	Method          Method
	Operation       OperationKind
	IsValid         bool
	RejectionReason string
	DeviceInfo      string
	RecordedAt      time.Time
}

// AuditRecorder appends scan attempts to the audit sink. Entries are never
// updated or deleted by the admission core.
type AuditRecorder interface {
	RecordScan(ctx context.Context, rec AuditRecord) error
}

// ProcessRequest is one resolved admission attempt.
type ProcessRequest struct {
	TicketCode string
	ScannerID  string
	Latitude   *float64
	Longitude  *float64
	Method     Method
	DeviceInfo string

	// IdempotencyKey is the client-generated local scan id, when present.
	// A retried network submission with the same key returns the original
	// outcome instead of consuming a second admission.
	IdempotencyKey string
}

// Processor validates one admission attempt against authoritative ticket
// state and atomically records the outcome.
type Processor interface {
	Process(ctx context.Context, req ProcessRequest) (*ScanAttemptResult, error)
}

// processor implements the Processor interface
type processor struct {
	admitter TicketAdmitter
	audit    AuditRecorder
	idem     IdempotencyGuard
	logger   *logger.Logger
}

// NewProcessor creates a new scan processor instance. The idempotency guard
// is optional; without it, retried submissions fall through to the scan
// limit check.
func NewProcessor(admitter TicketAdmitter, audit AuditRecorder, idem IdempotencyGuard) Processor {
	return &processor{
		admitter: admitter,
		audit:    audit,
		idem:     idem,
		logger:   logger.GetDefault(),
	}
}

// Process runs the four validation outcomes in fixed order: unknown ticket,
// inadmissible status, scan limit, then the atomic admission itself. The
// ordering lives inside the row-locked admit, so two scanners racing on one
// ticket serialize and exactly one of them sees success. A storage failure
// is returned as an error, distinct from all four outcomes, and mutates
// nothing.
func (p *processor) Process(ctx context.Context, req ProcessRequest) (*ScanAttemptResult, error) {
	if p.idem != nil && req.IdempotencyKey != "" {
		prior, err := p.idem.Lookup(ctx, req.IdempotencyKey)
		if err != nil {
			// The guard is an optimization; a broken guard must not block
			// the gate.
			p.logger.Warn("idempotency lookup failed", slog.String("error", err.Error()))
		} else if prior != nil {
			return prior, nil
		}
	}

	var result *ScanAttemptResult

	ticket, err := p.admitter.Admit(ctx, req.TicketCode)
	switch {
	case err == nil:
		result = &ScanAttemptResult{
			Success:      true,
			Message:      fmt.Sprintf("admitted: scan %d recorded", ticket.ScanCount),
			TicketNumber: ticket.TicketNumber,
			ScanCount:    ticket.ScanCount,
		}
		p.logger.LogScanAccepted(ctx, ticket.TicketNumber, req.ScannerID, ticket.ScanCount)

	case errors.Is(err, tickets.ErrNotFound):
		result = &ScanAttemptResult{
			Success:         false,
			Message:         "ticket not found",
			RejectionReason: ReasonNotFound,
		}

	default:
		var notAdmissible *tickets.NotAdmissibleError
		var limitReached *tickets.LimitReachedError
		switch {
		case errors.As(err, &notAdmissible):
			result = &ScanAttemptResult{
				Success:         false,
				Message:         fmt.Sprintf("ticket is %s and cannot be scanned", notAdmissible.Status),
				RejectionReason: ReasonInvalidStatus,
			}
		case errors.As(err, &limitReached):
			result = &ScanAttemptResult{
				Success:         false,
				Message:         fmt.Sprintf("ticket already used: %d of %d scans consumed", limitReached.ScanCount, limitReached.MaxScans),
				RejectionReason: ReasonAlreadyUsed,
				ScanCount:       limitReached.ScanCount,
			}
		default:
			// Transient storage failure: report without recording anything
			// against the ticket.
			return nil, fmt.Errorf("admission storage failure: %w", err)
		}
		p.logger.LogScanRejected(ctx, req.TicketCode, req.ScannerID, result.RejectionReason.String())
	}

	p.appendAudit(ctx, req, result)

	if p.idem != nil && req.IdempotencyKey != "" {
		if err := p.idem.Store(ctx, req.IdempotencyKey, result); err != nil {
			p.logger.Warn("idempotency store failed", slog.String("error", err.Error()))
		}
	}

	return result, nil
}

// appendAudit writes one audit entry per processed attempt. Audit trouble is
// logged but never turns a decided admission into a failure.
func (p *processor) appendAudit(ctx context.Context, req ProcessRequest, result *ScanAttemptResult) {
	if p.audit == nil {
		return
	}

	rec := AuditRecord{
		ScannerID:       req.ScannerID,
		TicketCode:      req.TicketCode,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Method:          req.Method,
		Operation:       OperationAccess,
		IsValid:         result.Success,
		RejectionReason: result.RejectionReason.String(),
		DeviceInfo:      req.DeviceInfo,
		RecordedAt:      time.Now().UTC(),
	}
	if result.Success {
		rec.RejectionReason = ""
	}

	if err := p.audit.RecordScan(ctx, rec); err != nil {
		p.logger.Error("audit append failed",
			slog.String("ticket_code", req.TicketCode),
			slog.String("scanner_id", req.ScannerID),
			slog.String("error", err.Error()),
		)
	}
}
