package credentials

// BandInfo is the extra payload carried by NFC wristband credentials. The
// admission core treats it opaquely and only threads it through to callers.
type BandInfo struct {
	BandID string   `json:"band_id"`
	UserID string   `json:"user_id"`
	Alerts []string `json:"alerts,omitempty"`
}

// Result is the outcome of resolving an inbound scan payload.
type Result struct {
	Valid      bool      `json:"valid"`
	Reason     string    `json:"reason,omitempty"`
	TicketCode string    `json:"ticket_code,omitempty"`
	Band       *BandInfo `json:"band,omitempty"`
}
