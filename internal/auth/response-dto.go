package auth

import "time"

// ScannerResponse represents scanner data in responses (without the secret)
type ScannerResponse struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"device_id"`
	Label     string    `json:"label"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Scanner      ScannerResponse `json:"scanner"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int64           `json:"expires_in"`
}

func toScannerResponse(s *Scanner) ScannerResponse {
	return ScannerResponse{
		ID:        s.ID.String(),
		DeviceID:  s.DeviceID,
		Label:     s.Label,
		Role:      s.Role,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
