package scans

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"admitly/internal/tickets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdmitter serializes admissions against an in-memory ticket the way the
// row-locked transaction does against the database.
type fakeAdmitter struct {
	mu     sync.Mutex
	ticket *tickets.Ticket
	err    error
}

func (f *fakeAdmitter) Admit(ctx context.Context, code string) (*tickets.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if f.ticket == nil || f.ticket.Code != code {
		return nil, tickets.ErrNotFound
	}
	if !f.ticket.Status.IsScanValid() {
		return nil, &tickets.NotAdmissibleError{Status: f.ticket.Status}
	}
	if f.ticket.AtLimit() {
		return nil, &tickets.LimitReachedError{ScanCount: f.ticket.ScanCount, MaxScans: f.ticket.MaxScans}
	}

	f.ticket.ScanCount++
	f.ticket.Status = tickets.DeriveAfterScan(f.ticket.Status, f.ticket.ScanCount, f.ticket.MaxScans)
	copied := *f.ticket
	return &copied, nil
}

type fakeAuditRecorder struct {
	mu      sync.Mutex
	records []AuditRecord
	err     error
}

func (f *fakeAuditRecorder) RecordScan(ctx context.Context, rec AuditRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

type memoryIdemGuard struct {
	mu      sync.Mutex
	results map[string]*ScanAttemptResult
}

func newMemoryIdemGuard() *memoryIdemGuard {
	return &memoryIdemGuard{results: make(map[string]*ScanAttemptResult)}
}

func (g *memoryIdemGuard) Lookup(ctx context.Context, key string) (*ScanAttemptResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.results[key], nil
}

func (g *memoryIdemGuard) Store(ctx context.Context, key string, result *ScanAttemptResult) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.results[key]; !exists {
		g.results[key] = result
	}
	return nil
}

func paidTicket(code string, scanCount, maxScans int) *tickets.Ticket {
	return &tickets.Ticket{
		TicketNumber: "TKT-100",
		Code:         code,
		Status:       tickets.StatusPaid,
		ScanCount:    scanCount,
		MaxScans:     maxScans,
	}
}

func TestProcessAdmitsFreshTicket(t *testing.T) {
	admitter := &fakeAdmitter{ticket: paidTicket("TICKET-1", 0, 1)}
	audit := &fakeAuditRecorder{}
	p := NewProcessor(admitter, audit, nil)

	result, err := p.Process(context.Background(), ProcessRequest{
		TicketCode: "TICKET-1",
		ScannerID:  "scanner-1",
		Method:     MethodQR,
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.ScanCount)
	assert.Equal(t, "TKT-100", result.TicketNumber)

	require.Len(t, audit.records, 1)
	assert.True(t, audit.records[0].IsValid)
	assert.Empty(t, audit.records[0].RejectionReason)
	assert.Equal(t, OperationAccess, audit.records[0].Operation)
}

func TestProcessRejectsUnknownTicket(t *testing.T) {
	admitter := &fakeAdmitter{}
	audit := &fakeAuditRecorder{}
	p := NewProcessor(admitter, audit, nil)

	result, err := p.Process(context.Background(), ProcessRequest{TicketCode: "NOPE", ScannerID: "scanner-1"})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ReasonNotFound, result.RejectionReason)

	require.Len(t, audit.records, 1)
	assert.False(t, audit.records[0].IsValid)
	assert.Equal(t, "not_found", audit.records[0].RejectionReason)
}

func TestProcessRejectsInadmissibleStatus(t *testing.T) {
	ticket := paidTicket("TICKET-1", 0, 1)
	ticket.Status = tickets.StatusRevoked
	p := NewProcessor(&fakeAdmitter{ticket: ticket}, nil, nil)

	result, err := p.Process(context.Background(), ProcessRequest{TicketCode: "TICKET-1", ScannerID: "scanner-1"})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ReasonInvalidStatus, result.RejectionReason)
	assert.Contains(t, result.Message, "REVOKED")
}

func TestProcessRejectsConsumedTicket(t *testing.T) {
	p := NewProcessor(&fakeAdmitter{ticket: paidTicket("TICKET-1", 1, 1)}, nil, nil)

	result, err := p.Process(context.Background(), ProcessRequest{TicketCode: "TICKET-1", ScannerID: "scanner-1"})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ReasonAlreadyUsed, result.RejectionReason)
	assert.Equal(t, 1, result.ScanCount)
}

func TestProcessMultiScanTicketUntilLimit(t *testing.T) {
	p := NewProcessor(&fakeAdmitter{ticket: paidTicket("TICKET-1", 0, 3)}, nil, nil)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		result, err := p.Process(ctx, ProcessRequest{TicketCode: "TICKET-1", ScannerID: "scanner-1"})
		require.NoError(t, err)
		assert.True(t, result.Success, "scan %d should be accepted", i)
		assert.Equal(t, i, result.ScanCount)
	}

	result, err := p.Process(ctx, ProcessRequest{TicketCode: "TICKET-1", ScannerID: "scanner-1"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ReasonAlreadyUsed, result.RejectionReason)
}

func TestProcessStorageFailureReturnsError(t *testing.T) {
	admitter := &fakeAdmitter{err: errors.New("connection reset")}
	audit := &fakeAuditRecorder{}
	p := NewProcessor(admitter, audit, nil)

	result, err := p.Process(context.Background(), ProcessRequest{TicketCode: "TICKET-1", ScannerID: "scanner-1"})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, audit.records, "a failed attempt must not reach the audit sink")
}

func TestProcessAuditFailureDoesNotFailScan(t *testing.T) {
	admitter := &fakeAdmitter{ticket: paidTicket("TICKET-1", 0, 1)}
	audit := &fakeAuditRecorder{err: errors.New("kafka down")}
	p := NewProcessor(admitter, audit, nil)

	result, err := p.Process(context.Background(), ProcessRequest{TicketCode: "TICKET-1", ScannerID: "scanner-1"})

	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestProcessRetryReturnsOriginalOutcome(t *testing.T) {
	admitter := &fakeAdmitter{ticket: paidTicket("TICKET-1", 0, 1)}
	guard := newMemoryIdemGuard()
	p := NewProcessor(admitter, nil, guard)
	ctx := context.Background()

	req := ProcessRequest{
		TicketCode:     "TICKET-1",
		ScannerID:      "scanner-1",
		IdempotencyKey: "local-42",
	}

	first, err := p.Process(ctx, req)
	require.NoError(t, err)
	assert.True(t, first.Success)

	// The network retry of the same physical scan must not consume a
	// second admission.
	second, err := p.Process(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, first.ScanCount, second.ScanCount)
	assert.Equal(t, 1, admitter.ticket.ScanCount)
}

func TestProcessConcurrentScansExactlyOneSucceeds(t *testing.T) {
	admitter := &fakeAdmitter{ticket: paidTicket("TICKET-1", 0, 1)}
	p := NewProcessor(admitter, nil, nil)

	const attempts = 16
	results := make([]*ScanAttemptResult, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := p.Process(context.Background(), ProcessRequest{
				TicketCode:     "TICKET-1",
				ScannerID:      fmt.Sprintf("scanner-%d", i),
				IdempotencyKey: fmt.Sprintf("local-%d", i),
			})
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, result := range results {
		if result == nil {
			continue
		}
		if result.Success {
			succeeded++
		} else {
			assert.Equal(t, ReasonAlreadyUsed, result.RejectionReason)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, admitter.ticket.ScanCount)
}
