package services

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/atelierlibre/paroisse-api/internal/clock"
	"github.com/atelierlibre/paroisse-api/internal/domain/common"
	"github.com/atelierlibre/paroisse-api/internal/domain/subscriber"
	"github.com/atelierlibre/paroisse-api/internal/logger"
	"github.com/atelierlibre/paroisse-api/internal/storage/postgres"
	"github.com/atelierlibre/paroisse-api/internal/validation"
)

// SubscriberService handles the newsletter signup form and unsubscription.
type SubscriberService struct {
	subRepo   postgres.SubscriberRepository
	validator validation.SubscriberValidation
	clock     clock.Clock
	log       *log.Logger
}

// NewSubscriberService creates a new subscriber service
func NewSubscriberService(subRepo postgres.SubscriberRepository, clk clock.Clock) *SubscriberService {
	return &SubscriberService{
		subRepo:   subRepo,
		validator: validation.SubscriberValidation{},
		clock:     clk,
		log:       logger.Service("subscriber"),
	}
}

// Subscribe creates an active subscriber, or reactivates a previously
// unsubscribed one. Subscribing twice with the same email is a conflict.
func (s *SubscriberService) Subscribe(fullName, email string) (*subscriber.Subscriber, error) {
	if err := s.validator.ValidateSubscriberEmail(email); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), common.ErrInvalidInput)
	}

	existing, err := s.subRepo.GetByEmail(email)
	if err == nil {
		if existing.Status == subscriber.StatusActive {
			return nil, fmt.Errorf("cette adresse est déjà abonnée: %w", common.ErrConflict)
		}
		existing.Reactivate()
		if fullName != "" {
			existing.FullName = fullName
		}
		if err := s.subRepo.Update(existing); err != nil {
			return nil, err
		}
		s.log.Info("Subscriber reactivated", "id", existing.ID, "email", existing.Email)
		return existing, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	sub := subscriber.NewSubscriber(fullName, email, s.clock.Now())
	if err := s.subRepo.Create(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Unsubscribe marks the subscriber for the email as unsubscribed.
func (s *SubscriberService) Unsubscribe(email string) (*subscriber.Subscriber, error) {
	if err := s.validator.ValidateSubscriberEmail(email); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), common.ErrInvalidInput)
	}

	sub, err := s.subRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("abonné introuvable: %w", common.ErrNotFound)
		}
		return nil, err
	}

	if sub.Status == subscriber.StatusUnsubscribed {
		return nil, fmt.Errorf("cette adresse est déjà désabonnée: %w", common.ErrInvalidState)
	}

	sub.Unsubscribe(s.clock.Now())
	if err := s.subRepo.Update(sub); err != nil {
		return nil, err
	}

	s.log.Info("Subscriber unsubscribed", "id", sub.ID, "email", sub.Email)
	return sub, nil
}
