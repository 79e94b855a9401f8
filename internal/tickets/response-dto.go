package tickets

import "time"

// TicketResponse is the staff-facing view of a ticket.
type TicketResponse struct {
	ID             string     `json:"id"`
	EventID        string     `json:"event_id"`
	TicketNumber   string     `json:"ticket_number"`
	HolderName     string     `json:"holder_name,omitempty"`
	Status         Status     `json:"status"`
	ScanCount      int        `json:"scan_count"`
	MaxScans       int        `json:"max_scans"`
	RemainingScans int        `json:"remaining_scans"`
	FirstScanAt    *time.Time `json:"first_scan_at,omitempty"`
	LastScanAt     *time.Time `json:"last_scan_at,omitempty"`
}

// ToResponse converts a Ticket to its staff-facing view. The credential
// code itself is deliberately absent from responses.
func (t *Ticket) ToResponse() TicketResponse {
	return TicketResponse{
		ID:             t.ID.String(),
		EventID:        t.EventID.String(),
		TicketNumber:   t.TicketNumber,
		HolderName:     t.HolderName,
		Status:         t.Status,
		ScanCount:      t.ScanCount,
		MaxScans:       t.MaxScans,
		RemainingScans: t.RemainingScans(),
		FirstScanAt:    t.FirstScanAt,
		LastScanAt:     t.LastScanAt,
	}
}

// TicketListResponse is a paginated set of tickets.
type TicketListResponse struct {
	Tickets    []TicketResponse `json:"tickets"`
	TotalCount int64            `json:"total_count"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
}
