package newsletter

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status represents the sending lifecycle of a newsletter.
type Status string

const (
	StatusDraft     Status = "brouillon"
	StatusScheduled Status = "programmee"
	StatusSent      Status = "envoyee"
)

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value any) error {
	if value == nil {
		*s = StatusDraft
		return nil
	}
	if str, ok := value.(string); ok {
		switch Status(str) {
		case StatusDraft, StatusScheduled, StatusSent:
			*s = Status(str)
			return nil
		}
		return fmt.Errorf("invalid newsletter status value: %s", str)
	}
	return fmt.Errorf("cannot scan %T into Status", value)
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return string(s), nil
}

// RecipientStatus records the per-subscriber outcome of a newsletter send.
type RecipientStatus string

const (
	RecipientSent   RecipientStatus = "envoye"
	RecipientFailed RecipientStatus = "echec"
)

// Scan implements the sql.Scanner interface for database deserialization
func (s *RecipientStatus) Scan(value any) error {
	if value == nil {
		*s = RecipientFailed
		return nil
	}
	if str, ok := value.(string); ok {
		switch RecipientStatus(str) {
		case RecipientSent, RecipientFailed:
			*s = RecipientStatus(str)
			return nil
		}
		return fmt.Errorf("invalid recipient status value: %s", str)
	}
	return fmt.Errorf("cannot scan %T into RecipientStatus", value)
}

// Value implements the driver.Valuer interface for database serialization
func (s RecipientStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Newsletter is an HTML mailing sent to every active subscriber.
type Newsletter struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Subject     string     `json:"sujet" gorm:"column:sujet;not null"`
	Content     string     `json:"contenu" gorm:"column:contenu;not null"`
	Status      Status     `json:"statut" gorm:"column:statut;type:newsletter_status;not null;default:'brouillon'"`
	ScheduledAt *time.Time `json:"date_programmee,omitempty" gorm:"column:date_programmee"`
	SentAt      *time.Time `json:"date_envoi,omitempty" gorm:"column:date_envoi"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Newsletter) TableName() string {
	return "newsletters"
}

// BeforeCreate sets a UUID before creating the record
func (n *Newsletter) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// NewNewsletter creates a draft newsletter.
func NewNewsletter(subject, content string) *Newsletter {
	return &Newsletter{
		ID:      uuid.New(),
		Subject: subject,
		Content: content,
		Status:  StatusDraft,
	}
}

// CanSend reports whether the newsletter may be sent in its current state.
func (n *Newsletter) CanSend() bool {
	return n.Status == StatusDraft || n.Status == StatusScheduled
}

// MarkSent flips the newsletter to the sent state at the given instant.
func (n *Newsletter) MarkSent(now time.Time) {
	n.Status = StatusSent
	n.SentAt = &now
}

// Schedule sets the newsletter to go out at the given instant.
func (n *Newsletter) Schedule(at time.Time) error {
	if n.Status == StatusSent {
		return fmt.Errorf("newsletter has already been sent")
	}
	n.Status = StatusScheduled
	n.ScheduledAt = &at
	return nil
}

// IsDue reports whether a scheduled newsletter should be sent now.
func (n *Newsletter) IsDue(now time.Time) bool {
	return n.Status == StatusScheduled && n.ScheduledAt != nil && !n.ScheduledAt.After(now)
}

// Recipient is the per-subscriber delivery record for one newsletter.
type Recipient struct {
	ID           uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	NewsletterID uuid.UUID       `json:"newsletter_id" gorm:"column:newsletter_id;type:uuid;not null"`
	SubscriberID uuid.UUID       `json:"abonne_id" gorm:"column:abonne_id;type:uuid;not null"`
	Status       RecipientStatus `json:"statut" gorm:"column:statut;type:recipient_status;not null"`
	SentAt       time.Time       `json:"date_envoi" gorm:"column:date_envoi;autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Recipient) TableName() string {
	return "newsletter_abonnes"
}

// BeforeCreate sets a UUID before creating the record
func (r *Recipient) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
