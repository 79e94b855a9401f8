package scans

import (
	"context"
	"errors"
	"testing"

	"admitly/internal/tickets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotStore struct {
	snapshots map[string]*tickets.Snapshot
	err       error
}

func (f *fakeSnapshotStore) Snapshot(ctx context.Context, code string) (*tickets.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	snap, ok := f.snapshots[code]
	if !ok {
		return nil, tickets.ErrNotFound
	}
	return snap, nil
}

func TestResolverUnknownTicketIsConflict(t *testing.T) {
	resolver := NewConflictResolver(&fakeSnapshotStore{snapshots: map[string]*tickets.Snapshot{}})

	check, err := resolver.Check(context.Background(), queuedScan("a", "MISSING", timeNowUTC()))

	require.NoError(t, err)
	assert.True(t, check.HasConflict)
	require.NotNil(t, check.Resolution)
	assert.Equal(t, ResolutionReject, check.Resolution.Action)
	assert.Equal(t, "not found", check.Resolution.Reason)
	assert.Nil(t, check.Ticket)
}

func TestResolverInadmissibleStatusIsConflict(t *testing.T) {
	store := &fakeSnapshotStore{snapshots: map[string]*tickets.Snapshot{
		"TICKET-1": {TicketNumber: "TKT-1", Status: tickets.StatusRevoked, MaxScans: 1},
	}}
	resolver := NewConflictResolver(store)

	check, err := resolver.Check(context.Background(), queuedScan("a", "TICKET-1", timeNowUTC()))

	require.NoError(t, err)
	assert.True(t, check.HasConflict)
	assert.Equal(t, ResolutionReject, check.Resolution.Action)
	assert.Equal(t, "revoked", check.Resolution.Reason)
	require.NotNil(t, check.Ticket)
}

func TestResolverScanLimitIsConflict(t *testing.T) {
	store := &fakeSnapshotStore{snapshots: map[string]*tickets.Snapshot{
		"TICKET-1": {TicketNumber: "TKT-1", Status: tickets.StatusPaid, ScanCount: 1, MaxScans: 1},
	}}
	resolver := NewConflictResolver(store)

	check, err := resolver.Check(context.Background(), queuedScan("a", "TICKET-1", timeNowUTC()))

	require.NoError(t, err)
	assert.True(t, check.HasConflict)
	assert.Equal(t, "already used", check.Resolution.Reason)
}

func TestResolverUnlimitedTicketNeverHitsLimit(t *testing.T) {
	store := &fakeSnapshotStore{snapshots: map[string]*tickets.Snapshot{
		"STAFF-1": {TicketNumber: "TKT-5", Status: tickets.StatusPaid, ScanCount: 250, MaxScans: 0},
	}}
	resolver := NewConflictResolver(store)

	check, err := resolver.Check(context.Background(), queuedScan("a", "STAFF-1", timeNowUTC()))

	require.NoError(t, err)
	assert.False(t, check.HasConflict)
	assert.Nil(t, check.Resolution)
}

func TestResolverNoConflict(t *testing.T) {
	store := &fakeSnapshotStore{snapshots: map[string]*tickets.Snapshot{
		"TICKET-1": {TicketNumber: "TKT-1", Status: tickets.StatusPaid, ScanCount: 1, MaxScans: 3},
	}}
	resolver := NewConflictResolver(store)

	check, err := resolver.Check(context.Background(), queuedScan("a", "TICKET-1", timeNowUTC()))

	require.NoError(t, err)
	assert.False(t, check.HasConflict)
	require.NotNil(t, check.Ticket)
	assert.Equal(t, 1, check.Ticket.ScanCount)
}

func TestResolverStorageErrorIsNotAConflict(t *testing.T) {
	store := &fakeSnapshotStore{err: errors.New("connection refused")}
	resolver := NewConflictResolver(store)

	check, err := resolver.Check(context.Background(), queuedScan("a", "TICKET-1", timeNowUTC()))

	require.Error(t, err)
	assert.Nil(t, check)
}
