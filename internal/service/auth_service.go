package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/kiosk-api/internal/models"
	appErrors "github.com/noah-isme/kiosk-api/pkg/errors"
)

// AuthConfig defines configuration for the admin passcode flow.
type AuthConfig struct {
	Secret       string
	Expiration   time.Duration
	Passcode     string
	PasscodeHash string
}

// AuthService guards the admin surface behind a single shared passcode.
type AuthService struct {
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time

	mu   sync.RWMutex
	hash []byte
}

// NewAuthService constructs an AuthService. A configured bcrypt hash wins over the plain passcode.
func NewAuthService(validate *validator.Validate, logger *zap.Logger, config AuthConfig) (*AuthService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.Expiration <= 0 {
		config.Expiration = 30 * time.Minute
	}

	svc := &AuthService{validator: validate, logger: logger, config: config, now: time.Now}
	switch {
	case strings.TrimSpace(config.PasscodeHash) != "":
		if _, err := bcrypt.Cost([]byte(config.PasscodeHash)); err != nil {
			return nil, fmt.Errorf("parse admin passcode hash: %w", err)
		}
		svc.hash = []byte(config.PasscodeHash)
	case config.Passcode != "":
		hash, err := bcrypt.GenerateFromPassword([]byte(config.Passcode), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin passcode: %w", err)
		}
		svc.hash = hash
	default:
		logger.Warn("admin passcode not configured; admin login disabled")
	}
	return svc, nil
}

// Enabled reports whether a passcode is configured.
func (s *AuthService) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hash) > 0
}

// Login checks the passcode and issues an admin access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	if err := s.compare(req.Passcode); err != nil {
		s.logger.Warn("admin login rejected", zap.String("ip", req.IP))
		return nil, err
	}

	token, issuedAt, err := s.generateAccessToken()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.logger.Info("admin login", zap.String("ip", req.IP), zap.String("user_agent", req.UserAgent))
	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.Expiration.Seconds()),
		IssuedAt:    issuedAt,
	}, nil
}

// ChangePasscode replaces the shared passcode for the lifetime of the process.
func (s *AuthService) ChangePasscode(ctx context.Context, req models.ChangePasscodeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid change passcode payload")
	}
	if err := s.compare(req.OldPasscode); err != nil {
		return err
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPasscode), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash passcode")
	}

	s.mu.Lock()
	s.hash = newHash
	s.mu.Unlock()

	s.logger.Info("admin passcode changed")
	return nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin role required")
	}
	return claims, nil
}

func (s *AuthService) compare(passcode string) error {
	s.mu.RLock()
	hash := s.hash
	s.mu.RUnlock()

	if len(hash) == 0 {
		return appErrors.Clone(appErrors.ErrUnavailable, "admin access is not configured")
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(passcode)); err != nil {
		return appErrors.Clone(appErrors.ErrInvalidPasscode, "invalid passcode")
	}
	return nil
}

func (s *AuthService) generateAccessToken() (string, time.Time, error) {
	issuedAt := s.now().UTC()
	claims := &models.JWTClaims{
		SessionID: uuid.NewString(),
		Role:      models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiration)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}
