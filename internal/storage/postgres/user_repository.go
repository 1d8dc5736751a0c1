package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierlibre/paroisse-api/internal/domain/common"
	"github.com/atelierlibre/paroisse-api/internal/domain/user"
	"github.com/atelierlibre/paroisse-api/internal/logger"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewGormUserRepository creates a new user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{
		db:  db,
		log: logger.Repository("user"),
	}
}

func (r *GormUserRepository) Create(u *user.User) error {
	r.log.Debug("Creating user", "email", u.Email, "nom", u.FullName)

	// Check if user with email already exists
	var existing user.User
	if err := r.db.Where("LOWER(email) = LOWER(?)", u.Email).First(&existing).Error; err == nil {
		r.log.Error("User with email already exists", "email", u.Email)
		return common.ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		r.log.Error("Failed to check existing user", "email", u.Email, "error", err)
		return fmt.Errorf("failed to check existing user: %w", err)
	}

	if err := r.db.Create(u).Error; err != nil {
		r.log.Error("Failed to create user", "error", err, "email", u.Email)
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("User created successfully", "id", u.ID, "email", u.Email)
	return nil
}

func (r *GormUserRepository) GetByID(id string) (*user.User, error) {
	r.log.Debug("retrieving user by ID", "user_id", id)

	userID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("Invalid user ID format", "id", id, "error", err)
		return nil, common.ErrNotFound
	}

	var u user.User
	if err := r.db.First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("User not found", "id", id)
			return nil, common.ErrNotFound
		}
		r.log.Error("Failed to get user by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &u, nil
}

func (r *GormUserRepository) GetByEmail(email string) (*user.User, error) {
	r.log.Debug("retrieving user by email", "email", email)

	if email == "" {
		return nil, fmt.Errorf("email cannot be empty")
	}

	var u user.User
	if err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("User not found", "email", email)
			return nil, common.ErrNotFound
		}
		r.log.Error("Failed to get user by email", "email", email, "error", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &u, nil
}
