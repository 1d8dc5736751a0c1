package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"

	"github.com/atelierlibre/paroisse-api/internal/clock"
	"github.com/atelierlibre/paroisse-api/internal/domain/common"
	"github.com/atelierlibre/paroisse-api/internal/domain/user"
	"github.com/atelierlibre/paroisse-api/internal/logger"
	"github.com/atelierlibre/paroisse-api/internal/storage/postgres"
	"github.com/atelierlibre/paroisse-api/internal/validation"
)

// ErrInvalidCredentials is returned on any login failure; callers must not
// learn whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("identifiants invalides")

// AuthService handles account creation and JWT issuance.
type AuthService struct {
	userRepo    postgres.UserRepository
	jwtSecret   []byte
	tokenExpiry time.Duration
	clock       clock.Clock
	log         *log.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo postgres.UserRepository, jwtSecret string, expiryHours int, clk clock.Clock) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: time.Duration(expiryHours) * time.Hour,
		clock:       clk,
		log:         logger.Service("auth"),
	}
}

// Claims are the JWT claims carried by issued tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Register creates a member account.
func (s *AuthService) Register(fullName, email, password string) (*user.User, error) {
	if err := validation.ValidateRequired(fullName, "nom_complet"); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), common.ErrInvalidInput)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), common.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("mot de passe trop court: %w", common.ErrInvalidInput)
	}

	u, err := user.NewUser(fullName, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(u); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("un compte existe déjà avec cette adresse: %w", common.ErrConflict)
		}
		return nil, err
	}

	s.log.Info("Account registered", "id", u.ID, "email", u.Email)
	return u, nil
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(email, password string) (string, *user.User, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !u.CheckPassword(password) {
		return "", nil, ErrInvalidCredentials
	}

	now := s.clock.Now()
	claims := Claims{
		UserID: u.ID.String(),
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.log.Info("Account logged in", "id", u.ID, "email", u.Email)
	return token, u, nil
}
