package analytics

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Repository defines the analytics repository interface
type Repository interface {
	GetDashboardAnalytics(ctx context.Context) (*DashboardAnalytics, error)
	GetOverviewMetrics(ctx context.Context) (*OverviewMetrics, error)
	GetScannerAnalytics(ctx context.Context, scannerID string) (*ScannerAnalytics, error)
	GetTicketUtilization(ctx context.Context) (*TicketUtilization, error)
}

// repository implements the Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new analytics repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetDashboardAnalytics(ctx context.Context) (*DashboardAnalytics, error) {
	overview, err := r.GetOverviewMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get overview metrics: %w", err)
	}

	reasons, err := r.getRejectionReasons(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get rejection reasons: %w", err)
	}

	scanners, err := r.getScannerActivity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get scanner activity: %w", err)
	}

	hourly, err := r.getHourlyAdmissions(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get hourly admissions: %w", err)
	}

	recent, err := r.getRecentActivity(ctx, 20)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent activity: %w", err)
	}

	return &DashboardAnalytics{
		Overview:         *overview,
		RejectionReasons: reasons,
		ScannerActivity:  scanners,
		HourlyAdmissions: hourly,
		RecentActivity:   recent,
	}, nil
}

func (r *repository) GetOverviewMetrics(ctx context.Context) (*OverviewMetrics, error) {
	metrics := &OverviewMetrics{}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_scans,
			COUNT(*) FILTER (WHERE is_valid) AS accepted_scans,
			COUNT(*) FILTER (WHERE NOT is_valid) AS rejected_scans,
			COUNT(DISTINCT scanner_id) AS active_scanners
		FROM scan_events
	`).Scan(metrics).Error
	if err != nil {
		return nil, err
	}

	if metrics.TotalScans > 0 {
		metrics.AcceptanceRate = float64(metrics.AcceptedScans) / float64(metrics.TotalScans) * 100
	}

	var pending, failed int64
	if err := r.db.WithContext(ctx).Table("queued_scans").
		Where("status = ?", "PENDING").Count(&pending).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Table("queued_scans").
		Where("status = ?", "FAILED").Count(&failed).Error; err != nil {
		return nil, err
	}
	metrics.PendingQueue = int(pending)
	metrics.FailedQueue = int(failed)

	var ticketsTotal, ticketsUsed int64
	if err := r.db.WithContext(ctx).Table("tickets").Count(&ticketsTotal).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Table("tickets").
		Where("scan_count > 0").Count(&ticketsUsed).Error; err != nil {
		return nil, err
	}
	metrics.TicketsTotal = int(ticketsTotal)
	metrics.TicketsUsed = int(ticketsUsed)

	return metrics, nil
}

func (r *repository) GetScannerAnalytics(ctx context.Context, scannerID string) (*ScannerAnalytics, error) {
	var stats ScannerStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			scanner_id,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_valid) AS accepted,
			COUNT(*) FILTER (WHERE NOT is_valid) AS rejected,
			MAX(recorded_at) AS last_seen
		FROM scan_events
		WHERE scanner_id = ?
		GROUP BY scanner_id
	`, scannerID).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	if stats.ScannerID == "" {
		stats.ScannerID = scannerID
	}

	reasons, err := r.getRejectionReasons(ctx, scannerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rejection reasons: %w", err)
	}

	hourly, err := r.getHourlyAdmissions(ctx, scannerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get hourly admissions: %w", err)
	}

	return &ScannerAnalytics{
		Stats:            stats,
		RejectionReasons: reasons,
		HourlyAdmissions: hourly,
	}, nil
}

func (r *repository) GetTicketUtilization(ctx context.Context) (*TicketUtilization, error) {
	util := &TicketUtilization{}

	err := r.db.WithContext(ctx).Raw(`
		SELECT status, COUNT(*) AS count
		FROM tickets
		GROUP BY status
		ORDER BY count DESC
	`).Scan(&util.ByStatus).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_tickets,
			COUNT(*) FILTER (WHERE max_scans > 0 AND scan_count >= max_scans) AS fully_consumed,
			COUNT(*) FILTER (WHERE scan_count = 0) AS never_scanned,
			COALESCE(AVG(scan_count), 0) AS avg_scans_per_ticket
		FROM tickets
	`).Scan(util).Error
	if err != nil {
		return nil, err
	}

	return util, nil
}

func (r *repository) getRejectionReasons(ctx context.Context, scannerID string) ([]ReasonCount, error) {
	var reasons []ReasonCount
	query := r.db.WithContext(ctx).Table("scan_events").
		Select("rejection_reason AS reason, COUNT(*) AS count").
		Where("is_valid = false AND rejection_reason <> ''")
	if scannerID != "" {
		query = query.Where("scanner_id = ?", scannerID)
	}
	err := query.Group("rejection_reason").Order("count DESC").Scan(&reasons).Error
	return reasons, err
}

func (r *repository) getScannerActivity(ctx context.Context) ([]ScannerStats, error) {
	var stats []ScannerStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			scanner_id,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_valid) AS accepted,
			COUNT(*) FILTER (WHERE NOT is_valid) AS rejected,
			MAX(recorded_at) AS last_seen
		FROM scan_events
		GROUP BY scanner_id
		ORDER BY total DESC
	`).Scan(&stats).Error
	return stats, err
}

func (r *repository) getHourlyAdmissions(ctx context.Context, scannerID string) ([]HourlyMetric, error) {
	var hourly []HourlyMetric
	query := `
		SELECT
			TO_CHAR(DATE_TRUNC('hour', recorded_at), 'YYYY-MM-DD HH24:00') AS hour,
			COUNT(*) FILTER (WHERE is_valid) AS accepted,
			COUNT(*) FILTER (WHERE NOT is_valid) AS rejected
		FROM scan_events
	`
	args := []interface{}{}
	if scannerID != "" {
		query += " WHERE scanner_id = ?"
		args = append(args, scannerID)
	}
	query += " GROUP BY 1 ORDER BY 1"

	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&hourly).Error
	return hourly, err
}

func (r *repository) getRecentActivity(ctx context.Context, limit int) ([]RecentScanItem, error) {
	var items []RecentScanItem
	err := r.db.WithContext(ctx).Table("scan_events").
		Select("ticket_code, scanner_id, is_valid, rejection_reason AS reason, recorded_at").
		Order("recorded_at DESC").
		Limit(limit).
		Scan(&items).Error
	return items, err
}
