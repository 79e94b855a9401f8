package scans

import "fmt"

// Dedupe collapses redundant entries referencing the same ticket within a
// batch. The entry with the earliest capture timestamp is kept as the
// representative of its group; every other entry resolves to a deterministic
// duplicate outcome and must never reach the processor. Without this step,
// the second entry for a ticket in the same batch would be rejected as
// already used by the ticket's own first, legitimate scan.
//
// Dedupe is pure: it mutates neither the batch nor any store. The returned
// representatives preserve the original batch order.
func Dedupe(batch []QueuedScan) ([]QueuedScan, []SyncItemResult) {
	if len(batch) <= 1 {
		return batch, nil
	}

	// Pick the earliest capture per ticket. Ties go to the entry seen
	// first in the batch, which keeps the outcome deterministic.
	representative := make(map[string]int, len(batch))
	for i, scan := range batch {
		best, seen := representative[scan.TicketCode]
		if !seen || scan.CapturedAt.Before(batch[best].CapturedAt) {
			representative[scan.TicketCode] = i
		}
	}

	survivors := make([]QueuedScan, 0, len(representative))
	var duplicates []SyncItemResult
	for i, scan := range batch {
		if representative[scan.TicketCode] == i {
			survivors = append(survivors, scan)
			continue
		}
		keeper := batch[representative[scan.TicketCode]]
		duplicates = append(duplicates, SyncItemResult{
			LocalID:         scan.LocalID,
			TicketCode:      scan.TicketCode,
			Success:         false,
			Message:         fmt.Sprintf("duplicate of scan %s captured earlier in the same batch", keeper.LocalID),
			RejectionReason: ReasonDuplicate,
		})
	}

	return survivors, duplicates
}
