package scans

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timeNowUTC() time.Time {
	return time.Now().UTC()
}

func queuedScan(localID, ticketCode string, capturedAt time.Time) QueuedScan {
	return QueuedScan{
		LocalID:    localID,
		TicketCode: ticketCode,
		ScannerID:  "scanner-1",
		Method:     MethodQR,
		CapturedAt: capturedAt,
		Status:     QueuedPending,
	}
}

func TestDedupeEmptyAndSingle(t *testing.T) {
	survivors, duplicates := Dedupe(nil)
	assert.Empty(t, survivors)
	assert.Empty(t, duplicates)

	base := time.Now()
	one := []QueuedScan{queuedScan("a", "TICKET-1", base)}
	survivors, duplicates = Dedupe(one)
	require.Len(t, survivors, 1)
	assert.Empty(t, duplicates)
	assert.Equal(t, "a", survivors[0].LocalID)
}

func TestDedupeEarliestCaptureWins(t *testing.T) {
	base := time.Now()
	batch := []QueuedScan{
		queuedScan("late", "TICKET-1", base.Add(2*time.Minute)),
		queuedScan("early", "TICKET-1", base),
		queuedScan("other", "TICKET-2", base.Add(time.Minute)),
	}

	survivors, duplicates := Dedupe(batch)

	require.Len(t, survivors, 2)
	assert.Equal(t, "early", survivors[0].LocalID)
	assert.Equal(t, "other", survivors[1].LocalID)

	require.Len(t, duplicates, 1)
	assert.Equal(t, "late", duplicates[0].LocalID)
	assert.Equal(t, "TICKET-1", duplicates[0].TicketCode)
	assert.False(t, duplicates[0].Success)
	assert.Equal(t, ReasonDuplicate, duplicates[0].RejectionReason)
	assert.Contains(t, duplicates[0].Message, "early")
}

func TestDedupeTieGoesToFirstInBatch(t *testing.T) {
	base := time.Now()
	batch := []QueuedScan{
		queuedScan("first", "TICKET-1", base),
		queuedScan("second", "TICKET-1", base),
	}

	survivors, duplicates := Dedupe(batch)

	require.Len(t, survivors, 1)
	assert.Equal(t, "first", survivors[0].LocalID)
	require.Len(t, duplicates, 1)
	assert.Equal(t, "second", duplicates[0].LocalID)
}

func TestDedupePreservesBatchOrder(t *testing.T) {
	base := time.Now()
	batch := []QueuedScan{
		queuedScan("a", "TICKET-3", base.Add(3*time.Second)),
		queuedScan("b", "TICKET-1", base.Add(time.Second)),
		queuedScan("c", "TICKET-2", base.Add(2*time.Second)),
	}

	survivors, duplicates := Dedupe(batch)

	require.Len(t, survivors, 3)
	assert.Empty(t, duplicates)
	assert.Equal(t, "a", survivors[0].LocalID)
	assert.Equal(t, "b", survivors[1].LocalID)
	assert.Equal(t, "c", survivors[2].LocalID)
}

func TestDedupeDoesNotMutateInput(t *testing.T) {
	base := time.Now()
	batch := []QueuedScan{
		queuedScan("late", "TICKET-1", base.Add(time.Minute)),
		queuedScan("early", "TICKET-1", base),
	}

	Dedupe(batch)

	assert.Equal(t, "late", batch[0].LocalID)
	assert.Equal(t, QueuedPending, batch[0].Status)
	assert.Equal(t, "early", batch[1].LocalID)
}
