package auth

// RegisterScannerRequest enrolls a new gate device. Admin only.
type RegisterScannerRequest struct {
	DeviceID string `json:"device_id" validate:"required,min=3,max=64"`
	Label    string `json:"label" validate:"max=255"`
	Secret   string `json:"secret" validate:"required,min=8"`
	Role     string `json:"role,omitempty"` // Optional, defaults to "GATE"
}

// LoginRequest authenticates a gate device by its enrolled secret
type LoginRequest struct {
	DeviceID string `json:"device_id" validate:"required"`
	Secret   string `json:"secret" validate:"required"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
