package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admitly/internal/shared/config"
	"admitly/internal/shared/middleware"
)

type memoryRepository struct {
	scanners map[string]*Scanner
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{scanners: make(map[string]*Scanner)}
}

func (r *memoryRepository) CreateScanner(ctx context.Context, scanner *Scanner) error {
	if scanner.ID == uuid.Nil {
		scanner.ID = uuid.New()
	}
	stored := *scanner
	r.scanners[scanner.ID.String()] = &stored
	return nil
}

func (r *memoryRepository) GetByDeviceID(ctx context.Context, deviceID string) (*Scanner, error) {
	for _, scanner := range r.scanners {
		if scanner.DeviceID == deviceID {
			copied := *scanner
			return &copied, nil
		}
	}
	return nil, ErrScannerNotFound
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Scanner, error) {
	scanner, ok := r.scanners[id]
	if !ok {
		return nil, ErrScannerNotFound
	}
	copied := *scanner
	return &copied, nil
}

func (r *memoryRepository) DeviceIDExists(ctx context.Context, deviceID string) (bool, error) {
	_, err := r.GetByDeviceID(ctx, deviceID)
	if err == ErrScannerNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *memoryRepository) Deactivate(ctx context.Context, id string) error {
	scanner, ok := r.scanners[id]
	if !ok {
		return ErrScannerNotFound
	}
	scanner.Active = false
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(newMemoryRepository(), testConfig())

	registered, err := svc.Register(context.Background(), &RegisterScannerRequest{
		DeviceID: "gate-north-01",
		Label:    "North Gate",
		Secret:   "gate-secret",
		Role:     "gate",
	})
	require.NoError(t, err)
	assert.Equal(t, "gate-north-01", registered.Scanner.DeviceID)
	assert.Equal(t, middleware.RoleGate, registered.Scanner.Role)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)

	logged, err := svc.Login(context.Background(), &LoginRequest{
		DeviceID: "gate-north-01",
		Secret:   "gate-secret",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.Scanner.ID, logged.Scanner.ID)

	claims, err := svc.ValidateToken(logged.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, "gate-north-01", claims.DeviceID)
	assert.Equal(t, middleware.RoleGate, claims.Role)
}

func TestRegisterRejectsDuplicateDevice(t *testing.T) {
	svc := NewService(newMemoryRepository(), testConfig())

	_, err := svc.Register(context.Background(), &RegisterScannerRequest{
		DeviceID: "gate-north-01",
		Secret:   "gate-secret",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &RegisterScannerRequest{
		DeviceID: "gate-north-01",
		Secret:   "other-secret",
	})
	assert.ErrorIs(t, err, ErrScannerAlreadyExists)
}

func TestRegisterNormalizesUnknownRole(t *testing.T) {
	svc := NewService(newMemoryRepository(), testConfig())

	registered, err := svc.Register(context.Background(), &RegisterScannerRequest{
		DeviceID: "ops-console-01",
		Secret:   "ops-secret",
		Role:     "superuser",
	})
	require.NoError(t, err)
	assert.Equal(t, middleware.RoleGate, registered.Scanner.Role)

	admin, err := svc.Register(context.Background(), &RegisterScannerRequest{
		DeviceID: "ops-console-02",
		Secret:   "ops-secret",
		Role:     "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, middleware.RoleAdmin, admin.Scanner.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewService(newMemoryRepository(), testConfig())

	_, err := svc.Register(context.Background(), &RegisterScannerRequest{
		DeviceID: "gate-north-01",
		Secret:   "gate-secret",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginRequest{
		DeviceID: "gate-north-01",
		Secret:   "wrong-secret",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &LoginRequest{
		DeviceID: "unknown-device",
		Secret:   "gate-secret",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsDeactivatedScanner(t *testing.T) {
	svc := NewService(newMemoryRepository(), testConfig())

	registered, err := svc.Register(context.Background(), &RegisterScannerRequest{
		DeviceID: "gate-north-01",
		Secret:   "gate-secret",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), registered.Scanner.ID))

	_, err = svc.Login(context.Background(), &LoginRequest{
		DeviceID: "gate-north-01",
		Secret:   "gate-secret",
	})
	assert.ErrorIs(t, err, ErrScannerInactive)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := NewService(newMemoryRepository(), testConfig())

	registered, err := svc.Register(context.Background(), &RegisterScannerRequest{
		DeviceID: "gate-north-01",
		Secret:   "gate-secret",
	})
	require.NoError(t, err)

	pair, err := svc.RefreshToken(context.Background(), registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, registered.Scanner.ID, claims.ScannerID)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc := NewService(newMemoryRepository(), testConfig())

	registered, err := svc.Register(context.Background(), &RegisterScannerRequest{
		DeviceID: "gate-north-01",
		Secret:   "gate-secret",
	})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), registered.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenRejectsDeactivatedScanner(t *testing.T) {
	svc := NewService(newMemoryRepository(), testConfig())

	registered, err := svc.Register(context.Background(), &RegisterScannerRequest{
		DeviceID: "gate-north-01",
		Secret:   "gate-secret",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), registered.Scanner.ID))

	_, err = svc.RefreshToken(context.Background(), registered.RefreshToken)
	assert.ErrorIs(t, err, ErrScannerInactive)
}

func TestValidateTokenRejectsForgedSignature(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo, testConfig())

	registered, err := svc.Register(context.Background(), &RegisterScannerRequest{
		DeviceID: "gate-north-01",
		Secret:   "gate-secret",
	})
	require.NoError(t, err)

	other := NewService(repo, &config.Config{
		JWT: config.JWTConfig{
			Secret:           "different-secret",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
	})

	_, err = other.ValidateToken(registered.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
