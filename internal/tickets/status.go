package tickets

type Status string

const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusIssued         Status = "ISSUED"
	StatusPaid           Status = "PAID"
	StatusUsed           Status = "USED"
	StatusRevoked        Status = "REVOKED"
	StatusRefunded       Status = "REFUNDED"
)

// IsValid checks if the ticket status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPendingPayment, StatusIssued, StatusPaid, StatusUsed, StatusRevoked, StatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsScanValid reports whether a ticket in this status may be admitted.
// PENDING_PAYMENT, REVOKED, and REFUNDED are never admissible; USED is
// handled separately through the scan-count limit so that multi-scan
// tickets keep working until the cap is reached.
func (s Status) IsScanValid() bool {
	switch s {
	case StatusPendingPayment, StatusRevoked, StatusRefunded:
		return false
	}
	return true
}

// DeriveAfterScan returns the status a ticket should carry once a scan has
// been recorded. A finite cap flips the ticket to USED only when the new
// count reaches it; unlimited tickets keep their current status.
func DeriveAfterScan(current Status, newScanCount, maxScans int) Status {
	if maxScans > 0 && newScanCount >= maxScans {
		return StatusUsed
	}
	return current
}
