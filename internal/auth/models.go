package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Scanner is a registered gate device allowed to submit scans.
// Secret holds the bcrypt hash of the device secret, never the plaintext.
type Scanner struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DeviceID  string    `gorm:"uniqueIndex;not null;size:64" json:"device_id"`
	Label     string    `gorm:"size:255" json:"label"`
	Secret    string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"type:varchar(10);default:'GATE'" json:"role"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Scanner
func (Scanner) TableName() string {
	return "scanners"
}

// JWTClaims represents JWT token claims issued to gate devices
type JWTClaims struct {
	ScannerID string `json:"scanner_id"`
	DeviceID  string `json:"device_id"`
	Role      string `json:"role"`
	Type      string `json:"type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
