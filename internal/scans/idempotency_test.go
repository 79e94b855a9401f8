package scans

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"admitly/internal/shared/constants"
	"admitly/pkg/cache"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyGuardLookupMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	guard := NewIdempotencyGuard(cache.NewService(client), time.Hour)

	mock.ExpectGet(constants.BuildScanIdempotencyKey("local-1")).RedisNil()

	result, err := guard.Lookup(context.Background(), "local-1")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyGuardStoreAndLookup(t *testing.T) {
	client, mock := redismock.NewClientMock()
	guard := NewIdempotencyGuard(cache.NewService(client), time.Hour)

	result := &ScanAttemptResult{
		Success:      true,
		Message:      "scan accepted",
		TicketNumber: "TICKET-1",
		ScanCount:    1,
	}
	data, err := json.Marshal(result)
	require.NoError(t, err)

	key := constants.BuildScanIdempotencyKey("local-1")
	mock.ExpectSetNX(key, data, time.Hour).SetVal(true)
	mock.ExpectGet(key).SetVal(string(data))

	require.NoError(t, guard.Store(context.Background(), "local-1", result))

	replayed, err := guard.Lookup(context.Background(), "local-1")
	require.NoError(t, err)
	require.NotNil(t, replayed)
	assert.Equal(t, result, replayed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyGuardStoreKeepsFirstWriter(t *testing.T) {
	client, mock := redismock.NewClientMock()
	guard := NewIdempotencyGuard(cache.NewService(client), time.Hour)

	loser := &ScanAttemptResult{
		Success:         false,
		Message:         "ticket already fully used",
		RejectionReason: ReasonAlreadyUsed,
	}
	data, err := json.Marshal(loser)
	require.NoError(t, err)

	// SetNX returning false means another submission already recorded the
	// outcome; Store still reports success.
	mock.ExpectSetNX(constants.BuildScanIdempotencyKey("local-1"), data, time.Hour).SetVal(false)

	assert.NoError(t, guard.Store(context.Background(), "local-1", loser))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyGuardDefaultTTL(t *testing.T) {
	client, mock := redismock.NewClientMock()
	guard := NewIdempotencyGuard(cache.NewService(client), 0)

	result := &ScanAttemptResult{Success: true, Message: "scan accepted"}
	data, err := json.Marshal(result)
	require.NoError(t, err)

	mock.ExpectSetNX(constants.BuildScanIdempotencyKey("local-2"), data, constants.TTL_SCAN_IDEMPOTENCY).SetVal(true)

	assert.NoError(t, guard.Store(context.Background(), "local-2", result))
	assert.NoError(t, mock.ExpectationsWereMet())
}
