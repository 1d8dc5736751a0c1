package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateRequired valida que un campo no esté vacío
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateMaxLength valida la longitud máxima de un string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return fmt.Errorf("%s must be at most %d characters long", fieldName, maxLength)
	}
	return nil
}

// ValidateUUID valida que un string sea un UUID válido
func ValidateUUID(value, fieldName string) error {
	if _, err := uuid.Parse(value); err != nil {
		return errors.New(fieldName + " must be a valid UUID")
	}
	return nil
}

// ValidateEmail valida formato básico de email
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return errors.New("email must have a valid format")
	}
	return nil
}

// EventValidation contiene validaciones específicas para eventos
type EventValidation struct{}

// ValidateTitle valida el título de un evento
func (v EventValidation) ValidateTitle(title string) error {
	if err := ValidateRequired(title, "titre"); err != nil {
		return err
	}
	return ValidateMaxLength(title, 150, "titre")
}

// ValidateCapacity valida el número de plazas de un evento
func (v EventValidation) ValidateCapacity(capacity int) error {
	if capacity <= 0 {
		return errors.New("nombre_places must be positive")
	}
	return nil
}

// ValidateEventDate valida que la fecha del evento no esté en el pasado
func (v EventValidation) ValidateEventDate(eventDate, now time.Time) error {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if eventDate.Before(today) {
		return errors.New("date_evenement cannot be in the past")
	}
	return nil
}

// RegistrationValidation contiene validaciones específicas para inscripciones
type RegistrationValidation struct{}

// ValidateGuestFields valida los datos de contacto de un visitante
func (v RegistrationValidation) ValidateGuestFields(fullName, email, sex, phone string) error {
	if err := ValidateRequired(fullName, "nom_complet"); err != nil {
		return err
	}
	if err := ValidateRequired(email, "email"); err != nil {
		return err
	}
	if err := ValidateRequired(sex, "sexe"); err != nil {
		return err
	}
	if err := ValidateRequired(phone, "telephone"); err != nil {
		return err
	}
	return ValidateEmail(email)
}

// SubscriberValidation contiene validaciones específicas para abonnés
type SubscriberValidation struct{}

// ValidateSubscriberEmail valida el email de un abonné
func (v SubscriberValidation) ValidateSubscriberEmail(email string) error {
	if err := ValidateRequired(email, "email"); err != nil {
		return err
	}
	return ValidateEmail(email)
}
