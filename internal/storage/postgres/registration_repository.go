package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierlibre/paroisse-api/internal/domain/common"
	"github.com/atelierlibre/paroisse-api/internal/domain/registration"
	"github.com/atelierlibre/paroisse-api/internal/logger"
)

// GormRegistrationRepository implements RegistrationRepository using GORM
type GormRegistrationRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewGormRegistrationRepository creates a new registration repository
func NewGormRegistrationRepository(db *gorm.DB) *GormRegistrationRepository {
	return &GormRegistrationRepository{
		db:  db,
		log: logger.Repository("registration"),
	}
}

func (r *GormRegistrationRepository) Create(reg *registration.Registration) error {
	r.log.Debug("Creating registration", "evenement_id", reg.EventID, "email", reg.Email, "type", reg.Type)

	if err := r.db.Create(reg).Error; err != nil {
		r.log.Error("Failed to create registration", "error", err, "evenement_id", reg.EventID)
		return fmt.Errorf("failed to create registration: %w", err)
	}

	r.log.Info("Registration created successfully", "id", reg.ID, "evenement_id", reg.EventID, "type", reg.Type)
	return nil
}

func (r *GormRegistrationRepository) Delete(id uuid.UUID) error {
	r.log.Debug("Deleting registration", "id", id)

	if err := r.db.Delete(&registration.Registration{}, "id = ?", id).Error; err != nil {
		r.log.Error("Failed to delete registration", "id", id, "error", err)
		return fmt.Errorf("failed to delete registration: %w", err)
	}

	return nil
}

func (r *GormRegistrationRepository) FindByEventAndUser(eventID, userID uuid.UUID) (*registration.Registration, error) {
	r.log.Debug("looking up registration by event and user", "evenement_id", eventID, "utilisateur_id", userID)

	var reg registration.Registration
	if err := r.db.Where("evenement_id = ? AND utilisateur_id = ?", eventID, userID).First(&reg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		r.log.Error("Failed to find registration by user", "evenement_id", eventID, "utilisateur_id", userID, "error", err)
		return nil, fmt.Errorf("failed to find registration by user: %w", err)
	}

	return &reg, nil
}

func (r *GormRegistrationRepository) FindByEventAndEmail(eventID uuid.UUID, email string) (*registration.Registration, error) {
	r.log.Debug("looking up registration by event and email", "evenement_id", eventID, "email", email)

	var reg registration.Registration
	if err := r.db.Where("evenement_id = ? AND LOWER(email) = LOWER(?)", eventID, email).First(&reg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		r.log.Error("Failed to find registration by email", "evenement_id", eventID, "error", err)
		return nil, fmt.Errorf("failed to find registration by email: %w", err)
	}

	return &reg, nil
}

func (r *GormRegistrationRepository) GetByEvent(eventID uuid.UUID) ([]*registration.Registration, error) {
	var regs []*registration.Registration
	if err := r.db.Where("evenement_id = ?", eventID).Order("date_inscription ASC").Find(&regs).Error; err != nil {
		r.log.Error("Failed to get registrations for event", "evenement_id", eventID, "error", err)
		return nil, fmt.Errorf("failed to get registrations for event: %w", err)
	}

	r.log.Debug("Retrieved registrations for event", "evenement_id", eventID, "count", len(regs))
	return regs, nil
}
