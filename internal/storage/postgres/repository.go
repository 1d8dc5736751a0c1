package postgres

import (
	"time"

	"github.com/google/uuid"

	"github.com/atelierlibre/paroisse-api/internal/domain/event"
	"github.com/atelierlibre/paroisse-api/internal/domain/newsletter"
	"github.com/atelierlibre/paroisse-api/internal/domain/registration"
	"github.com/atelierlibre/paroisse-api/internal/domain/subscriber"
	"github.com/atelierlibre/paroisse-api/internal/domain/user"
)

// EventRepository defines the persistence operations for events.
type EventRepository interface {
	Create(event *event.Event) error
	GetByID(id string) (*event.Event, error)
	GetBySlug(slug string) (*event.Event, error)
	GetAll(status string, tag string) ([]*event.Event, error)
	Update(event *event.Event) error
	UpdateStatus(id string, status event.Status) error
	SlugExists(slug string) (bool, error)
	// ClaimSeat atomically increments the registered count while it is below
	// capacity. Returns common.ErrCapacityExceeded when no seat is left.
	ClaimSeat(id uuid.UUID) error
	// ReleaseSeat undoes a claim after a failed registration insert.
	ReleaseSeat(id uuid.UUID) error
}

// RegistrationRepository defines the persistence operations for event registrations.
type RegistrationRepository interface {
	Create(reg *registration.Registration) error
	Delete(id uuid.UUID) error
	FindByEventAndUser(eventID, userID uuid.UUID) (*registration.Registration, error)
	FindByEventAndEmail(eventID uuid.UUID, email string) (*registration.Registration, error)
	GetByEvent(eventID uuid.UUID) ([]*registration.Registration, error)
}

// SubscriberRepository defines the persistence operations for mailing-list members.
type SubscriberRepository interface {
	Create(sub *subscriber.Subscriber) error
	GetByEmail(email string) (*subscriber.Subscriber, error)
	GetAllActive() ([]*subscriber.Subscriber, error)
	Update(sub *subscriber.Subscriber) error
}

// NewsletterRepository defines the persistence operations for newsletters and
// their per-recipient delivery records.
type NewsletterRepository interface {
	Create(nl *newsletter.Newsletter) error
	GetByID(id string) (*newsletter.Newsletter, error)
	GetAll() ([]*newsletter.Newsletter, error)
	Update(nl *newsletter.Newsletter) error
	FindDue(now time.Time) ([]*newsletter.Newsletter, error)
	CreateRecipient(rec *newsletter.Recipient) error
	GetRecipients(newsletterID uuid.UUID) ([]*newsletter.Recipient, error)
}

// UserRepository defines the persistence operations for accounts.
type UserRepository interface {
	Create(u *user.User) error
	GetByID(id string) (*user.User, error)
	GetByEmail(email string) (*user.User, error)
}
