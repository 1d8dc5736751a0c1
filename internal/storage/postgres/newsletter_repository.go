package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierlibre/paroisse-api/internal/domain/common"
	"github.com/atelierlibre/paroisse-api/internal/domain/newsletter"
	"github.com/atelierlibre/paroisse-api/internal/logger"
)

// GormNewsletterRepository implements NewsletterRepository using GORM
type GormNewsletterRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewGormNewsletterRepository creates a new newsletter repository
func NewGormNewsletterRepository(db *gorm.DB) *GormNewsletterRepository {
	return &GormNewsletterRepository{
		db:  db,
		log: logger.Repository("newsletter"),
	}
}

func (r *GormNewsletterRepository) Create(nl *newsletter.Newsletter) error {
	r.log.Debug("Creating newsletter", "sujet", nl.Subject)

	if nl.Subject == "" {
		return fmt.Errorf("newsletter subject cannot be empty")
	}
	if nl.Content == "" {
		return fmt.Errorf("newsletter content cannot be empty")
	}

	if err := r.db.Create(nl).Error; err != nil {
		r.log.Error("Failed to create newsletter", "error", err, "sujet", nl.Subject)
		return fmt.Errorf("failed to create newsletter: %w", err)
	}

	r.log.Info("Newsletter created successfully", "id", nl.ID, "sujet", nl.Subject)
	return nil
}

func (r *GormNewsletterRepository) GetByID(id string) (*newsletter.Newsletter, error) {
	r.log.Debug("retrieving newsletter by ID", "newsletter_id", id)

	newsletterID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("Invalid newsletter ID format", "id", id, "error", err)
		return nil, common.ErrNotFound
	}

	var nl newsletter.Newsletter
	if err := r.db.First(&nl, "id = ?", newsletterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		r.log.Error("Failed to get newsletter by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get newsletter by ID: %w", err)
	}

	return &nl, nil
}

func (r *GormNewsletterRepository) GetAll() ([]*newsletter.Newsletter, error) {
	var newsletters []*newsletter.Newsletter
	if err := r.db.Order("created_at DESC").Find(&newsletters).Error; err != nil {
		r.log.Error("Failed to get newsletters", "error", err)
		return nil, fmt.Errorf("failed to get newsletters: %w", err)
	}

	r.log.Debug("Retrieved newsletters", "count", len(newsletters))
	return newsletters, nil
}

func (r *GormNewsletterRepository) Update(nl *newsletter.Newsletter) error {
	r.log.Debug("Updating newsletter", "id", nl.ID, "statut", nl.Status)

	if err := r.db.Save(nl).Error; err != nil {
		r.log.Error("Failed to update newsletter", "error", err, "id", nl.ID)
		return fmt.Errorf("failed to update newsletter: %w", err)
	}

	r.log.Info("Newsletter updated successfully", "id", nl.ID, "statut", nl.Status)
	return nil
}

func (r *GormNewsletterRepository) FindDue(now time.Time) ([]*newsletter.Newsletter, error) {
	r.log.Debug("looking up due scheduled newsletters", "now", now)

	var due []*newsletter.Newsletter
	if err := r.db.
		Where("statut = ? AND date_programmee IS NOT NULL AND date_programmee <= ?", newsletter.StatusScheduled, now).
		Order("date_programmee ASC").
		Find(&due).Error; err != nil {
		r.log.Error("Failed to find due newsletters", "error", err)
		return nil, fmt.Errorf("failed to find due newsletters: %w", err)
	}

	r.log.Debug("Found due newsletters", "count", len(due))
	return due, nil
}

func (r *GormNewsletterRepository) CreateRecipient(rec *newsletter.Recipient) error {
	r.log.Debug("Recording newsletter recipient", "newsletter_id", rec.NewsletterID, "abonne_id", rec.SubscriberID, "statut", rec.Status)

	if err := r.db.Create(rec).Error; err != nil {
		r.log.Error("Failed to record newsletter recipient", "error", err, "newsletter_id", rec.NewsletterID)
		return fmt.Errorf("failed to record newsletter recipient: %w", err)
	}

	return nil
}

func (r *GormNewsletterRepository) GetRecipients(newsletterID uuid.UUID) ([]*newsletter.Recipient, error) {
	var recipients []*newsletter.Recipient
	if err := r.db.Where("newsletter_id = ?", newsletterID).Order("date_envoi ASC").Find(&recipients).Error; err != nil {
		r.log.Error("Failed to get newsletter recipients", "newsletter_id", newsletterID, "error", err)
		return nil, fmt.Errorf("failed to get newsletter recipients: %w", err)
	}

	r.log.Debug("Retrieved newsletter recipients", "newsletter_id", newsletterID, "count", len(recipients))
	return recipients, nil
}
