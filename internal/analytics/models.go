package analytics

import (
	"time"
)

// Dashboard & Overview Models

type DashboardAnalytics struct {
	Overview         OverviewMetrics  `json:"overview"`
	RejectionReasons []ReasonCount    `json:"rejection_reasons"`
	ScannerActivity  []ScannerStats   `json:"scanner_activity"`
	HourlyAdmissions []HourlyMetric   `json:"hourly_admissions"`
	RecentActivity   []RecentScanItem `json:"recent_activity"`
}

type OverviewMetrics struct {
	TotalScans     int     `json:"total_scans"`
	AcceptedScans  int     `json:"accepted_scans"`
	RejectedScans  int     `json:"rejected_scans"`
	AcceptanceRate float64 `json:"acceptance_rate"`
	PendingQueue   int     `json:"pending_queue"`
	FailedQueue    int     `json:"failed_queue"`
	ActiveScanners int     `json:"active_scanners"`
	TicketsTotal   int     `json:"tickets_total"`
	TicketsUsed    int     `json:"tickets_used"`
}

type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

type ScannerStats struct {
	ScannerID string    `json:"scanner_id"`
	Total     int       `json:"total"`
	Accepted  int       `json:"accepted"`
	Rejected  int       `json:"rejected"`
	LastSeen  time.Time `json:"last_seen"`
}

type HourlyMetric struct {
	Hour     string `json:"hour"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
}

type RecentScanItem struct {
	TicketCode string    `json:"ticket_code"`
	ScannerID  string    `json:"scanner_id"`
	IsValid    bool      `json:"is_valid"`
	Reason     string    `json:"reason,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Scanner Analytics Models

type ScannerAnalytics struct {
	Stats            ScannerStats   `json:"stats"`
	RejectionReasons []ReasonCount  `json:"rejection_reasons"`
	HourlyAdmissions []HourlyMetric `json:"hourly_admissions"`
}

// Ticket Utilization Models

type TicketUtilization struct {
	ByStatus          []StatusCount `json:"by_status"`
	TotalTickets      int           `json:"total_tickets"`
	FullyConsumed     int           `json:"fully_consumed"`
	NeverScanned      int           `json:"never_scanned"`
	AvgScansPerTicket float64       `json:"avg_scans_per_ticket"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}
