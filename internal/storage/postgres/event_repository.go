package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierlibre/paroisse-api/internal/domain/common"
	"github.com/atelierlibre/paroisse-api/internal/domain/event"
	"github.com/atelierlibre/paroisse-api/internal/logger"
)

// GormEventRepository implements EventRepository using GORM
type GormEventRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewGormEventRepository creates a new event repository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{
		db:  db,
		log: logger.Repository("event"),
	}
}

func (r *GormEventRepository) Create(ev *event.Event) error {
	r.log.Debug("Creating event", "titre", ev.Title, "slug", ev.Slug)

	if err := ev.Validate(); err != nil {
		r.log.Error("Event validation failed", "error", err)
		return fmt.Errorf("event validation failed: %w", err)
	}

	if err := r.db.Create(ev).Error; err != nil {
		r.log.Error("Failed to create event", "error", err, "slug", ev.Slug)
		return fmt.Errorf("failed to create event: %w", err)
	}

	r.log.Info("Event created successfully", "id", ev.ID, "slug", ev.Slug, "statut", ev.Status)
	return nil
}

func (r *GormEventRepository) GetByID(id string) (*event.Event, error) {
	r.log.Debug("retrieving event by ID", "event_id", id)

	eventID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("Invalid event ID format", "id", id, "error", err)
		return nil, common.ErrNotFound
	}

	var ev event.Event
	if err := r.db.First(&ev, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("Event not found", "id", id)
			return nil, common.ErrNotFound
		}
		r.log.Error("Failed to get event by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get event by ID: %w", err)
	}

	return &ev, nil
}

func (r *GormEventRepository) GetBySlug(slug string) (*event.Event, error) {
	r.log.Debug("retrieving event by slug", "slug", slug)

	var ev event.Event
	if err := r.db.Where("slug = ?", slug).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("Event not found", "slug", slug)
			return nil, common.ErrNotFound
		}
		r.log.Error("Failed to get event by slug", "slug", slug, "error", err)
		return nil, fmt.Errorf("failed to get event by slug: %w", err)
	}

	return &ev, nil
}

func (r *GormEventRepository) GetAll(status string, tag string) ([]*event.Event, error) {
	query := r.db.Order("date_evenement ASC")
	if status != "" {
		query = query.Where("statut = ?", status)
	}
	if tag != "" {
		query = query.Where("? = ANY(tags)", tag)
	}

	var events []*event.Event
	if err := query.Find(&events).Error; err != nil {
		r.log.Error("Failed to get events", "error", err)
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	r.log.Debug("Retrieved events", "count", len(events), "statut", status)
	return events, nil
}

func (r *GormEventRepository) Update(ev *event.Event) error {
	r.log.Debug("Updating event", "id", ev.ID)

	if err := ev.Validate(); err != nil {
		r.log.Error("Event validation failed", "error", err)
		return fmt.Errorf("event validation failed: %w", err)
	}

	// The registered count only ever moves through ClaimSeat/ReleaseSeat;
	// writing it here would roll back seats claimed since the event was read.
	if err := r.db.Omit("nombre_inscrits").Save(ev).Error; err != nil {
		r.log.Error("Failed to update event", "error", err, "id", ev.ID)
		return fmt.Errorf("failed to update event: %w", err)
	}

	r.log.Info("Event updated successfully", "id", ev.ID, "slug", ev.Slug)
	return nil
}

func (r *GormEventRepository) UpdateStatus(id string, status event.Status) error {
	r.log.Debug("Updating event status", "event_id", id, "statut", status)

	eventID, err := uuid.Parse(id)
	if err != nil {
		r.log.Error("Invalid event ID format", "id", id, "error", err)
		return common.ErrNotFound
	}

	result := r.db.Model(&event.Event{}).Where("id = ?", eventID).Update("statut", status)
	if result.Error != nil {
		r.log.Error("Failed to update event status", "id", id, "error", result.Error)
		return fmt.Errorf("failed to update event status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.log.Debug("Event not found for status update", "id", id)
		return common.ErrNotFound
	}

	r.log.Info("Event status updated", "id", id, "statut", status)
	return nil
}

func (r *GormEventRepository) SlugExists(slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&event.Event{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		r.log.Error("Failed to check slug existence", "slug", slug, "error", err)
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}
	return count > 0, nil
}

// ClaimSeat performs the conditional atomic increment that guards capacity.
// Two racing registrations cannot both claim the last seat: the WHERE clause
// re-checks capacity inside the UPDATE itself.
func (r *GormEventRepository) ClaimSeat(id uuid.UUID) error {
	result := r.db.Model(&event.Event{}).
		Where("id = ? AND nombre_inscrits < nombre_places", id).
		UpdateColumn("nombre_inscrits", gorm.Expr("nombre_inscrits + 1"))
	if result.Error != nil {
		r.log.Error("Failed to claim seat", "event_id", id, "error", result.Error)
		return fmt.Errorf("failed to claim seat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.log.Debug("No seat left to claim", "event_id", id)
		return common.ErrCapacityExceeded
	}

	r.log.Info("Seat claimed", "event_id", id)
	return nil
}

func (r *GormEventRepository) ReleaseSeat(id uuid.UUID) error {
	result := r.db.Model(&event.Event{}).
		Where("id = ? AND nombre_inscrits > 0", id).
		UpdateColumn("nombre_inscrits", gorm.Expr("nombre_inscrits - 1"))
	if result.Error != nil {
		r.log.Error("Failed to release seat", "event_id", id, "error", result.Error)
		return fmt.Errorf("failed to release seat: %w", result.Error)
	}

	r.log.Info("Seat released", "event_id", id)
	return nil
}
