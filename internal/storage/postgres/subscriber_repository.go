package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/atelierlibre/paroisse-api/internal/domain/common"
	"github.com/atelierlibre/paroisse-api/internal/domain/subscriber"
	"github.com/atelierlibre/paroisse-api/internal/logger"
)

// GormSubscriberRepository implements SubscriberRepository using GORM
type GormSubscriberRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewGormSubscriberRepository creates a new subscriber repository
func NewGormSubscriberRepository(db *gorm.DB) *GormSubscriberRepository {
	return &GormSubscriberRepository{
		db:  db,
		log: logger.Repository("subscriber"),
	}
}

func (r *GormSubscriberRepository) Create(sub *subscriber.Subscriber) error {
	r.log.Debug("Creating subscriber", "email", sub.Email)

	if sub.Email == "" {
		return fmt.Errorf("subscriber email cannot be empty")
	}

	if err := r.db.Create(sub).Error; err != nil {
		r.log.Error("Failed to create subscriber", "error", err, "email", sub.Email)
		return fmt.Errorf("failed to create subscriber: %w", err)
	}

	r.log.Info("Subscriber created successfully", "id", sub.ID, "email", sub.Email)
	return nil
}

func (r *GormSubscriberRepository) GetByEmail(email string) (*subscriber.Subscriber, error) {
	r.log.Debug("retrieving subscriber by email", "email", email)

	if email == "" {
		return nil, fmt.Errorf("email cannot be empty")
	}

	var sub subscriber.Subscriber
	if err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		r.log.Error("Failed to get subscriber by email", "email", email, "error", err)
		return nil, fmt.Errorf("failed to get subscriber by email: %w", err)
	}

	return &sub, nil
}

func (r *GormSubscriberRepository) GetAllActive() ([]*subscriber.Subscriber, error) {
	var subs []*subscriber.Subscriber
	if err := r.db.Where("statut = ?", subscriber.StatusActive).Order("date_abonnement ASC").Find(&subs).Error; err != nil {
		r.log.Error("Failed to get active subscribers", "error", err)
		return nil, fmt.Errorf("failed to get active subscribers: %w", err)
	}

	r.log.Debug("Retrieved active subscribers", "count", len(subs))
	return subs, nil
}

func (r *GormSubscriberRepository) Update(sub *subscriber.Subscriber) error {
	r.log.Debug("Updating subscriber", "id", sub.ID, "statut", sub.Status)

	if err := r.db.Save(sub).Error; err != nil {
		r.log.Error("Failed to update subscriber", "error", err, "id", sub.ID)
		return fmt.Errorf("failed to update subscriber: %w", err)
	}

	r.log.Info("Subscriber updated successfully", "id", sub.ID, "statut", sub.Status)
	return nil
}
