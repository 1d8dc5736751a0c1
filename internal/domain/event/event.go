package event

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Status represents the lifecycle state of an event. The French values are
// the persisted and exposed vocabulary.
type Status string

const (
	StatusDraft     Status = "brouillon"
	StatusPublished Status = "publie"
	StatusCancelled Status = "annule"
	StatusFinished  Status = "termine"
)

// StatusFromString converts a string to a Status
func StatusFromString(s string) (Status, bool) {
	switch Status(s) {
	case StatusDraft, StatusPublished, StatusCancelled, StatusFinished:
		return Status(s), true
	default:
		return StatusDraft, false
	}
}

func (s Status) String() string {
	return string(s)
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value any) error {
	if value == nil {
		*s = StatusDraft
		return nil
	}
	if str, ok := value.(string); ok {
		status, valid := StatusFromString(str)
		if !valid {
			return fmt.Errorf("invalid event status value: %s", str)
		}
		*s = status
		return nil
	}
	return fmt.Errorf("cannot scan %T into Status", value)
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return string(s), nil
}

// Event represents a parish activity with a date, a location and a bounded
// number of seats.
type Event struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Title           string         `json:"titre" gorm:"column:titre;not null"`
	Slug            string         `json:"slug" gorm:"uniqueIndex;not null"`
	Description     string         `json:"description" gorm:"not null"`
	EventDate       time.Time      `json:"date_evenement" gorm:"column:date_evenement;not null"`
	StartTime       string         `json:"heure_debut" gorm:"column:heure_debut"`
	EndTime         string         `json:"heure_fin" gorm:"column:heure_fin"`
	Location        string         `json:"lieu" gorm:"column:lieu;not null"`
	Capacity        int            `json:"nombre_places" gorm:"column:nombre_places;not null"`
	RegisteredCount int            `json:"nombre_inscrits" gorm:"column:nombre_inscrits;not null;default:0"`
	Status          Status         `json:"statut" gorm:"column:statut;type:event_status;not null;default:'brouillon'"`
	ImageURL        string         `json:"image_url" gorm:"column:image_url"`
	Tags            pq.StringArray `json:"tags" gorm:"type:text[]"`
	CreatorID       uuid.UUID      `json:"createur_id" gorm:"column:createur_id;type:uuid;not null"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Event) TableName() string {
	return "evenements"
}

// BeforeCreate sets a UUID before creating the record
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NewEvent creates a new event with the given parameters. The slug is derived
// from the title; uniqueness is the caller's concern (see MakeSlug).
func NewEvent(title, description, location string, capacity int, creatorID uuid.UUID, eventDate time.Time) *Event {
	return &Event{
		ID:          uuid.New(),
		Title:       title,
		Slug:        MakeSlug(title),
		Description: description,
		EventDate:   eventDate,
		Location:    location,
		Capacity:    capacity,
		Status:      StatusDraft,
		CreatorID:   creatorID,
	}
}

// MakeSlug derives a URL slug from an event title.
func MakeSlug(title string) string {
	return slug.Make(title)
}

// IsCreator checks if the given user ID is the creator of this event
func (e *Event) IsCreator(userID uuid.UUID) bool {
	return e.CreatorID == userID
}

// IsOpenForRegistration reports whether the event accepts registrations at the
// given instant. Capacity is checked separately, atomically, at seat-claim time.
func (e *Event) IsOpenForRegistration(now time.Time) error {
	if e.Status != StatusPublished {
		return fmt.Errorf("event is not open for registration (status %s)", e.Status)
	}
	if e.EventDate.Before(startOfDay(now)) {
		return fmt.Errorf("event date has passed")
	}
	return nil
}

// IsFull reports whether every seat has been claimed.
func (e *Event) IsFull() bool {
	return e.RegisteredCount >= e.Capacity
}

// RemainingSeats returns the number of seats still available.
func (e *Event) RemainingSeats() int {
	if e.IsFull() {
		return 0
	}
	return e.Capacity - e.RegisteredCount
}

// Validate checks if the event data is valid
func (e *Event) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("titre is required")
	}
	if e.Description == "" {
		return fmt.Errorf("description is required")
	}
	if e.Location == "" {
		return fmt.Errorf("lieu is required")
	}
	if e.Capacity <= 0 {
		return fmt.Errorf("nombre_places must be positive")
	}
	if e.CreatorID == uuid.Nil {
		return fmt.Errorf("createur_id is required")
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
