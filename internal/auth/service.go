package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"admitly/internal/shared/config"
	"admitly/internal/shared/middleware"
)

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrScannerNotFound      = errors.New("scanner not found")
	ErrScannerAlreadyExists = errors.New("scanner already exists")
	ErrScannerInactive      = errors.New("scanner is deactivated")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")
)

type Service interface {
	Register(ctx context.Context, req *RegisterScannerRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	Deactivate(ctx context.Context, scannerID string) error
	ValidateToken(tokenString string) (*JWTClaims, error)
}

type service struct {
	repo   Repository
	config *config.Config
}

func NewService(repo Repository, cfg *config.Config) Service {
	return &service{
		repo:   repo,
		config: cfg,
	}
}

func (s *service) Register(ctx context.Context, req *RegisterScannerRequest) (*AuthResponse, error) {
	exists, err := s.repo.DeviceIDExists(ctx, req.DeviceID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrScannerAlreadyExists
	}

	hashedSecret, err := bcrypt.GenerateFromPassword([]byte(req.Secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Default to the gate role, only known roles are accepted
	role := strings.ToUpper(req.Role)
	if role != middleware.RoleGate && role != middleware.RoleAdmin {
		role = middleware.RoleGate
	}

	scanner := &Scanner{
		DeviceID: req.DeviceID,
		Label:    req.Label,
		Secret:   string(hashedSecret),
		Role:     role,
		Active:   true,
	}

	if err := s.repo.CreateScanner(ctx, scanner); err != nil {
		return nil, err
	}

	tokenPair, err := s.generateTokenPair(scanner)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Scanner:      toScannerResponse(scanner),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	scanner, err := s.repo.GetByDeviceID(ctx, req.DeviceID)
	if err != nil {
		if err == ErrScannerNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(scanner.Secret), []byte(req.Secret)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !scanner.Active {
		return nil, ErrScannerInactive
	}

	tokenPair, err := s.generateTokenPair(scanner)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Scanner:      toScannerResponse(scanner),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.validateToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.Type != "refresh" {
		return nil, ErrInvalidToken
	}

	// Verify the device still exists and was not deactivated mid-event
	scanner, err := s.repo.GetByID(ctx, claims.ScannerID)
	if err != nil {
		return nil, ErrScannerNotFound
	}
	if !scanner.Active {
		return nil, ErrScannerInactive
	}

	return s.generateTokenPair(scanner)
}

func (s *service) Deactivate(ctx context.Context, scannerID string) error {
	return s.repo.Deactivate(ctx, scannerID)
}

func (s *service) ValidateToken(tokenString string) (*JWTClaims, error) {
	return s.validateToken(tokenString)
}

func (s *service) generateTokenPair(scanner *Scanner) (*TokenPair, error) {
	now := time.Now()

	accessClaims := JWTClaims{
		ScannerID: scanner.ID.String(),
		DeviceID:  scanner.DeviceID,
		Role:      scanner.Role,
		Type:      "access",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.JWT.JWTExpiresIn)),
			Issuer:    "admitly",
			Subject:   scanner.ID.String(),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.config.JWT.Secret))
	if err != nil {
		return nil, err
	}

	refreshClaims := JWTClaims{
		ScannerID: scanner.ID.String(),
		DeviceID:  scanner.DeviceID,
		Role:      scanner.Role,
		Type:      "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.JWT.RefreshExpiresIn)),
			Issuer:    "admitly",
			Subject:   scanner.ID.String(),
		},
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(s.config.JWT.Secret))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(s.config.JWT.JWTExpiresIn.Seconds()),
	}, nil
}

func (s *service) validateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.JWT.Secret), nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
