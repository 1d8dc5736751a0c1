package subscriber

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status represents a subscriber's mailing-list state.
type Status string

const (
	StatusActive       Status = "actif"
	StatusInactive     Status = "inactif"
	StatusUnsubscribed Status = "desabonne"
)

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value any) error {
	if value == nil {
		*s = StatusActive
		return nil
	}
	if str, ok := value.(string); ok {
		switch Status(str) {
		case StatusActive, StatusInactive, StatusUnsubscribed:
			*s = Status(str)
			return nil
		}
		return fmt.Errorf("invalid subscriber status value: %s", str)
	}
	return fmt.Errorf("cannot scan %T into Status", value)
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return string(s), nil
}

// Subscriber is an email-list member eligible to receive newsletters and
// publish notifications.
type Subscriber struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	FullName       string     `json:"nom_complet" gorm:"column:nom_complet"`
	Email          string     `json:"email" gorm:"uniqueIndex;not null"`
	Status         Status     `json:"statut" gorm:"column:statut;type:subscriber_status;not null;default:'actif'"`
	SubscribedAt   time.Time  `json:"date_abonnement" gorm:"column:date_abonnement;autoCreateTime"`
	UnsubscribedAt *time.Time `json:"date_desabonnement,omitempty" gorm:"column:date_desabonnement"`
}

// TableName overrides the table name used by GORM
func (Subscriber) TableName() string {
	return "abonnes"
}

// BeforeCreate sets a UUID before creating the record
func (s *Subscriber) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// NewSubscriber creates an active subscriber subscribed at the given instant.
func NewSubscriber(fullName, email string, now time.Time) *Subscriber {
	return &Subscriber{
		ID:           uuid.New(),
		FullName:     fullName,
		Email:        email,
		Status:       StatusActive,
		SubscribedAt: now,
	}
}

// Unsubscribe marks the subscriber as unsubscribed at the given instant.
func (s *Subscriber) Unsubscribe(now time.Time) {
	s.Status = StatusUnsubscribed
	s.UnsubscribedAt = &now
}

// Reactivate clears a previous unsubscription.
func (s *Subscriber) Reactivate() {
	s.Status = StatusActive
	s.UnsubscribedAt = nil
}
