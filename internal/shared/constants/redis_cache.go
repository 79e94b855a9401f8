package constants

import "time"

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the Admitly application
// Pattern: admitly:{module}:{operation}:{identifier}

// ================== CACHE TTL DURATIONS ==================

const (
	// Ticket snapshots back offline conflict checks; keep them near-live.
	TTL_TICKET_SNAPSHOT = 30 * time.Second

	// Idempotency markers must outlive the longest plausible offline gap.
	TTL_SCAN_IDEMPOTENCY = 24 * time.Hour

	// Queue stats shown on dashboards tolerate slight staleness.
	TTL_QUEUE_STATS = 5 * time.Second

	// Analytics aggregates are expensive and dashboard-facing.
	TTL_ANALYTICS_DASHBOARD = 1 * time.Minute
	TTL_ANALYTICS_SCANNER   = 1 * time.Minute
	TTL_ANALYTICS_TICKETS   = 5 * time.Minute
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "admitly"
)

// ================== TICKETS MODULE ==================

const (
	CACHE_KEY_TICKET_SNAPSHOT = CACHE_PREFIX + ":tickets:snapshot:" // + ticket-code
)

// ================== SCANS MODULE ==================

const (
	CACHE_KEY_SCAN_IDEMPOTENCY = CACHE_PREFIX + ":scans:idem:"       // + local-id
	CACHE_KEY_QUEUE_STATS      = CACHE_PREFIX + ":scans:queue:stats" // aggregate counters
)

// ================== ANALYTICS MODULE ==================

const (
	CACHE_KEY_ANALYTICS_DASHBOARD = CACHE_PREFIX + ":analytics:dashboard:admin"
	CACHE_KEY_ANALYTICS_SCANNER   = CACHE_PREFIX + ":analytics:scanner:" // + scanner-id
	CACHE_KEY_ANALYTICS_TICKETS   = CACHE_PREFIX + ":analytics:tickets:utilization"
)

// ================== HELPER FUNCTIONS ==================

func BuildTicketSnapshotKey(code string) string {
	return CACHE_KEY_TICKET_SNAPSHOT + code
}

func BuildScanIdempotencyKey(localID string) string {
	return CACHE_KEY_SCAN_IDEMPOTENCY + localID
}

func BuildScannerAnalyticsKey(scannerID string) string {
	return CACHE_KEY_ANALYTICS_SCANNER + scannerID
}
