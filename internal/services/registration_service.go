package services

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/atelierlibre/paroisse-api/internal/clock"
	"github.com/atelierlibre/paroisse-api/internal/domain/common"
	"github.com/atelierlibre/paroisse-api/internal/domain/event"
	"github.com/atelierlibre/paroisse-api/internal/domain/registration"
	"github.com/atelierlibre/paroisse-api/internal/domain/subscriber"
	"github.com/atelierlibre/paroisse-api/internal/domain/user"
	"github.com/atelierlibre/paroisse-api/internal/logger"
	"github.com/atelierlibre/paroisse-api/internal/storage/postgres"
	"github.com/atelierlibre/paroisse-api/internal/validation"
)

// RegistrationService handles the event registration workflow: guard checks,
// the atomic seat claim, the registration row and the subscriber side effect.
type RegistrationService struct {
	eventRepo postgres.EventRepository
	regRepo   postgres.RegistrationRepository
	subRepo   postgres.SubscriberRepository
	userRepo  postgres.UserRepository
	validator validation.RegistrationValidation
	clock     clock.Clock
	log       *log.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	eventRepo postgres.EventRepository,
	regRepo postgres.RegistrationRepository,
	subRepo postgres.SubscriberRepository,
	userRepo postgres.UserRepository,
	clk clock.Clock,
) *RegistrationService {
	return &RegistrationService{
		eventRepo: eventRepo,
		regRepo:   regRepo,
		subRepo:   subRepo,
		userRepo:  userRepo,
		validator: validation.RegistrationValidation{},
		clock:     clk,
		log:       logger.Service("registration"),
	}
}

// RegisterInput carries one registration request. Exactly one of EventID or
// Slug identifies the event. UserID is set for the authenticated path; the
// contact fields are the guest path.
type RegisterInput struct {
	EventID  string
	Slug     string
	UserID   string
	FullName string
	Email    string
	Sex      string
	Phone    string
}

// Register attempts to create a registration for the given event.
//
// The capacity pre-check gives early feedback, but the seat itself is claimed
// with a conditional atomic increment, so two racing requests cannot both take
// the last seat.
func (s *RegistrationService) Register(in RegisterInput) (*registration.Registration, error) {
	// Resolve the contact email first: account email when authenticated,
	// submitted email otherwise.
	contactEmail := in.Email
	var account *user.User
	if in.UserID != "" {
		var err error
		account, err = s.userRepo.GetByID(in.UserID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, fmt.Errorf("compte introuvable: %w", common.ErrNotFound)
			}
			return nil, err
		}
		contactEmail = account.Email
	}

	if err := validation.ValidateEmail(contactEmail); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), common.ErrInvalidInput)
	}

	ev, err := s.loadEvent(in)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := ev.IsOpenForRegistration(now); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), common.ErrInvalidState)
	}

	if ev.IsFull() {
		return nil, fmt.Errorf("l'évènement est complet: %w", common.ErrCapacityExceeded)
	}

	if err := s.checkDuplicate(ev, account, contactEmail); err != nil {
		return nil, err
	}

	reg, err := s.buildRegistration(ev, in, account, contactEmail)
	if err != nil {
		return nil, err
	}

	// Claim the seat before inserting the row; the claim is the only
	// authoritative capacity check.
	if err := s.eventRepo.ClaimSeat(ev.ID); err != nil {
		if errors.Is(err, common.ErrCapacityExceeded) {
			return nil, fmt.Errorf("l'évènement est complet: %w", common.ErrCapacityExceeded)
		}
		return nil, err
	}

	if err := s.regRepo.Create(reg); err != nil {
		// Give the seat back; a duplicate slipping past the pre-check ends up
		// here via the unique index.
		if releaseErr := s.eventRepo.ReleaseSeat(ev.ID); releaseErr != nil {
			s.log.Error("Failed to release seat after registration failure",
				"evenement_id", ev.ID, "error", releaseErr)
		}
		return nil, err
	}

	s.ensureSubscriber(reg.FullName, reg.Email)

	s.log.Info("Registration completed",
		"evenement_id", ev.ID, "inscription_id", reg.ID, "type", reg.Type)
	return reg, nil
}

// loadEvent resolves the event by id or slug.
func (s *RegistrationService) loadEvent(in RegisterInput) (*event.Event, error) {
	if in.Slug != "" {
		ev, err := s.eventRepo.GetBySlug(in.Slug)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, fmt.Errorf("évènement introuvable: %w", common.ErrNotFound)
			}
			return nil, err
		}
		return ev, nil
	}

	ev, err := s.eventRepo.GetByID(in.EventID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("évènement introuvable: %w", common.ErrNotFound)
		}
		return nil, err
	}
	return ev, nil
}

// checkDuplicate rejects a second registration for the same (event, user) or
// (event, email) pair.
func (s *RegistrationService) checkDuplicate(ev *event.Event, account *user.User, contactEmail string) error {
	if account != nil {
		if _, err := s.regRepo.FindByEventAndUser(ev.ID, account.ID); err == nil {
			return fmt.Errorf("vous êtes déjà inscrit à cet évènement: %w", common.ErrConflict)
		} else if !errors.Is(err, common.ErrNotFound) {
			return err
		}
		return nil
	}

	if _, err := s.regRepo.FindByEventAndEmail(ev.ID, contactEmail); err == nil {
		return fmt.Errorf("cette adresse est déjà inscrite à cet évènement: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return err
	}
	return nil
}

// buildRegistration snapshots account details or validates guest fields.
func (s *RegistrationService) buildRegistration(ev *event.Event, in RegisterInput, account *user.User, contactEmail string) (*registration.Registration, error) {
	if account != nil {
		// Re-load the account to snapshot name and email at registration
		// time rather than carrying a live reference.
		snapshot, err := s.userRepo.GetByID(account.ID.String())
		if err != nil {
			return nil, err
		}
		return registration.NewUserRegistration(ev.ID, snapshot.ID, snapshot.FullName, snapshot.Email), nil
	}

	if err := s.validator.ValidateGuestFields(in.FullName, in.Email, in.Sex, in.Phone); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), common.ErrInvalidInput)
	}
	return registration.NewGuestRegistration(ev.ID, in.FullName, contactEmail, in.Sex, in.Phone), nil
}

// ListForEvent returns every registration for an event. Restricted to the
// event's creator or an admin.
func (s *RegistrationService) ListForEvent(eventID string, actor Actor) ([]*registration.Registration, error) {
	ev, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("évènement introuvable: %w", common.ErrNotFound)
		}
		return nil, err
	}

	if !actor.canManage(ev) {
		return nil, fmt.Errorf("opération réservée au créateur ou à un administrateur: %w", common.ErrForbidden)
	}

	return s.regRepo.GetByEvent(ev.ID)
}

// Remove deletes a registration from an event and gives its seat back. Same
// access rule as ListForEvent.
func (s *RegistrationService) Remove(eventID, registrationID string, actor Actor) error {
	if err := validation.ValidateUUID(registrationID, "inscription_id"); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), common.ErrInvalidInput)
	}

	ev, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("évènement introuvable: %w", common.ErrNotFound)
		}
		return err
	}

	if !actor.canManage(ev) {
		return fmt.Errorf("opération réservée au créateur ou à un administrateur: %w", common.ErrForbidden)
	}

	regID := uuid.MustParse(registrationID)
	regs, err := s.regRepo.GetByEvent(ev.ID)
	if err != nil {
		return err
	}
	belongs := false
	for _, reg := range regs {
		if reg.ID == regID {
			belongs = true
			break
		}
	}
	if !belongs {
		return fmt.Errorf("inscription introuvable: %w", common.ErrNotFound)
	}

	if err := s.regRepo.Delete(regID); err != nil {
		return err
	}
	if err := s.eventRepo.ReleaseSeat(ev.ID); err != nil {
		s.log.Error("Failed to release seat after registration removal",
			"evenement_id", ev.ID, "inscription_id", regID, "error", err)
	}

	s.log.Info("Registration removed", "evenement_id", ev.ID, "inscription_id", regID)
	return nil
}

// ensureSubscriber creates an active subscriber for the email unless one
// already exists. Best effort: a failure here never fails the registration.
func (s *RegistrationService) ensureSubscriber(fullName, email string) {
	if _, err := s.subRepo.GetByEmail(email); err == nil {
		// Already subscribed, nothing to do.
		return
	} else if !errors.Is(err, common.ErrNotFound) {
		s.log.Warn("Subscriber lookup failed during registration", "email", email, "error", err)
		return
	}

	if err := s.subRepo.Create(subscriber.NewSubscriber(fullName, email, s.clock.Now())); err != nil {
		s.log.Warn("Failed to create subscriber during registration", "email", email, "error", err)
	}
}
