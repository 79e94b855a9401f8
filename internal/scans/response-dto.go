package scans

import (
	"time"

	"admitly/internal/credentials"
)

// SubmitScanResponse wraps a single-scan outcome with the resolved band
// info for NFC credentials.
type SubmitScanResponse struct {
	Result *ScanAttemptResult     `json:"result"`
	Band   *credentials.BandInfo  `json:"band,omitempty"`
}

// EnqueueScanResponse acknowledges a locally captured scan.
type EnqueueScanResponse struct {
	LocalID    string       `json:"local_id"`
	Status     QueuedStatus `json:"status"`
	CapturedAt time.Time    `json:"captured_at"`
}
