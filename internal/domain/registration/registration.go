package registration

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Type distinguishes registrations backed by an account from guest signups.
type Type string

const (
	TypeUser  Type = "utilisateur"
	TypeGuest Type = "visiteur"
)

// Scan implements the sql.Scanner interface for database deserialization
func (t *Type) Scan(value any) error {
	if value == nil {
		*t = TypeGuest
		return nil
	}
	if str, ok := value.(string); ok {
		switch Type(str) {
		case TypeUser, TypeGuest:
			*t = Type(str)
			return nil
		}
		return fmt.Errorf("invalid registration type value: %s", str)
	}
	return fmt.Errorf("cannot scan %T into Type", value)
}

// Value implements the driver.Valuer interface for database serialization
func (t Type) Value() (driver.Value, error) {
	return string(t), nil
}

// Registration is a single attendee's signup record for one event. Name and
// email are snapshotted at registration time, even for account holders.
type Registration struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	EventID      uuid.UUID  `json:"evenement_id" gorm:"column:evenement_id;type:uuid;not null"`
	UserID       *uuid.UUID `json:"utilisateur_id,omitempty" gorm:"column:utilisateur_id;type:uuid"`
	FullName     string     `json:"nom_complet" gorm:"column:nom_complet;not null"`
	Email        string     `json:"email" gorm:"not null"`
	Sex          string     `json:"sexe" gorm:"column:sexe"`
	Phone        string     `json:"telephone" gorm:"column:telephone"`
	Type         Type       `json:"type_inscription" gorm:"column:type_inscription;type:registration_type;not null"`
	Status       string     `json:"statut" gorm:"column:statut;not null;default:'confirmee'"`
	RegisteredAt time.Time  `json:"date_inscription" gorm:"column:date_inscription;autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Registration) TableName() string {
	return "inscriptions_evenement"
}

// BeforeCreate sets a UUID before creating the record
func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// NewUserRegistration builds a registration backed by an account, with the
// account's name and email copied in.
func NewUserRegistration(eventID, userID uuid.UUID, fullName, email string) *Registration {
	return &Registration{
		ID:       uuid.New(),
		EventID:  eventID,
		UserID:   &userID,
		FullName: fullName,
		Email:    email,
		Type:     TypeUser,
		Status:   "confirmee",
	}
}

// NewGuestRegistration builds a registration from free-form contact details.
func NewGuestRegistration(eventID uuid.UUID, fullName, email, sex, phone string) *Registration {
	return &Registration{
		ID:       uuid.New(),
		EventID:  eventID,
		FullName: fullName,
		Email:    email,
		Sex:      sex,
		Phone:    phone,
		Type:     TypeGuest,
		Status:   "confirmee",
	}
}
