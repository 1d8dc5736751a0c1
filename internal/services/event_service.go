package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/atelierlibre/paroisse-api/internal/clock"
	"github.com/atelierlibre/paroisse-api/internal/domain/common"
	"github.com/atelierlibre/paroisse-api/internal/domain/event"
	"github.com/atelierlibre/paroisse-api/internal/domain/user"
	"github.com/atelierlibre/paroisse-api/internal/logger"
	"github.com/atelierlibre/paroisse-api/internal/mailer"
	"github.com/atelierlibre/paroisse-api/internal/storage/postgres"
	"github.com/atelierlibre/paroisse-api/internal/validation"
)

// Actor identifies the authenticated account behind a management operation.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

// canManage restricts event mutation to the event's creator or an admin.
func (a Actor) canManage(ev *event.Event) bool {
	return a.Role == string(user.RoleAdmin) || ev.IsCreator(a.UserID)
}

// EventService handles event CRUD and the publish-time notification fan-out.
type EventService struct {
	eventRepo postgres.EventRepository
	subRepo   postgres.SubscriberRepository
	notifier  *mailer.Notifier
	validator validation.EventValidation
	clock     clock.Clock
	baseURL   string
	log       *log.Logger
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo postgres.EventRepository,
	subRepo postgres.SubscriberRepository,
	notifier *mailer.Notifier,
	clk clock.Clock,
	baseURL string,
) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		subRepo:   subRepo,
		notifier:  notifier,
		validator: validation.EventValidation{},
		clock:     clk,
		baseURL:   baseURL,
		log:       logger.Service("event"),
	}
}

// CreateEventInput carries an event creation request.
type CreateEventInput struct {
	Title       string
	Description string
	Location    string
	StartTime   string
	EndTime     string
	ImageURL    string
	Tags        []string
	Capacity    int
	EventDate   time.Time
	Status      string
	CreatorID   uuid.UUID
}

// Create validates and persists a new event. When the event is created
// directly in the published state, every active subscriber is notified; the
// fan-out aborts on the first failed send (see mailer.AbortOnFirstFailure) but
// the event itself is persisted regardless of mail outcome.
func (s *EventService) Create(ctx context.Context, in CreateEventInput) (*event.Event, mailer.Report, error) {
	if err := s.validator.ValidateTitle(in.Title); err != nil {
		return nil, mailer.Report{}, fmt.Errorf("%s: %w", err.Error(), common.ErrInvalidInput)
	}
	if err := s.validator.ValidateCapacity(in.Capacity); err != nil {
		return nil, mailer.Report{}, fmt.Errorf("%s: %w", err.Error(), common.ErrInvalidInput)
	}
	if err := s.validator.ValidateEventDate(in.EventDate, s.clock.Now()); err != nil {
		return nil, mailer.Report{}, fmt.Errorf("%s: %w", err.Error(), common.ErrInvalidInput)
	}

	status := event.StatusDraft
	if in.Status != "" {
		parsed, valid := event.StatusFromString(in.Status)
		if !valid {
			return nil, mailer.Report{}, fmt.Errorf("statut invalide %q: %w", in.Status, common.ErrInvalidInput)
		}
		status = parsed
	}

	ev := event.NewEvent(in.Title, in.Description, in.Location, in.Capacity, in.CreatorID, in.EventDate)
	ev.StartTime = in.StartTime
	ev.EndTime = in.EndTime
	ev.ImageURL = in.ImageURL
	ev.Tags = in.Tags
	ev.Status = status

	slug, err := s.uniqueSlug(ev.Slug)
	if err != nil {
		return nil, mailer.Report{}, err
	}
	ev.Slug = slug

	if err := s.eventRepo.Create(ev); err != nil {
		return nil, mailer.Report{}, err
	}

	var report mailer.Report
	if ev.Status == event.StatusPublished {
		report = s.notifySubscribers(ctx, ev)
	}

	return ev, report, nil
}

// uniqueSlug appends a numeric suffix until the slug is free.
func (s *EventService) uniqueSlug(base string) (string, error) {
	candidate := base
	for i := 2; ; i++ {
		exists, err := s.eventRepo.SlugExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// notifySubscribers runs the publish fan-out over every active subscriber.
func (s *EventService) notifySubscribers(ctx context.Context, ev *event.Event) mailer.Report {
	subs, err := s.subRepo.GetAllActive()
	if err != nil {
		s.log.Error("Failed to load subscribers for publish notification",
			"evenement_id", ev.ID, "error", err)
		return mailer.Report{Failed: 1, Aborted: true}
	}

	recipients := make([]mailer.Recipient, 0, len(subs))
	for _, sub := range subs {
		recipients = append(recipients, mailer.Recipient{
			ID:    sub.ID.String(),
			Name:  sub.FullName,
			Email: sub.Email,
		})
	}

	report := s.notifier.Fanout(ctx, recipients, mailer.AbortOnFirstFailure, func(rcpt mailer.Recipient) mailer.Message {
		return mailer.BuildEventNotification(rcpt, ev.Title, ev.Location, ev.Slug, s.baseURL, ev.EventDate)
	})

	s.log.Info("Publish notification fan-out finished",
		"evenement_id", ev.ID,
		"recipients", len(recipients),
		"failed", report.Failed,
		"aborted", report.Aborted)
	return report
}

// GetByID returns a single event.
func (s *EventService) GetByID(id string) (*event.Event, error) {
	return s.eventRepo.GetByID(id)
}

// GetBySlug returns a single event looked up by slug.
func (s *EventService) GetBySlug(slug string) (*event.Event, error) {
	return s.eventRepo.GetBySlug(slug)
}

// List returns events, optionally filtered by status and tag.
func (s *EventService) List(status, tag string) ([]*event.Event, error) {
	if status != "" {
		if _, valid := event.StatusFromString(status); !valid {
			return nil, fmt.Errorf("statut invalide %q: %w", status, common.ErrInvalidInput)
		}
	}
	return s.eventRepo.GetAll(status, tag)
}

// UpdateEventInput carries the mutable event fields.
type UpdateEventInput struct {
	Title       string
	Description string
	Location    string
	StartTime   string
	EndTime     string
	ImageURL    string
	Tags        []string
	Capacity    int
	EventDate   time.Time
	Status      string
}

// Update applies an edit to an event on behalf of its creator or an admin.
// The registered count is never edited through this path.
func (s *EventService) Update(id string, actor Actor, in UpdateEventInput) (*event.Event, error) {
	ev, err := s.eventRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("évènement introuvable: %w", common.ErrNotFound)
		}
		return nil, err
	}

	if !actor.canManage(ev) {
		return nil, fmt.Errorf("opération réservée au créateur ou à un administrateur: %w", common.ErrForbidden)
	}

	if err := s.validator.ValidateTitle(in.Title); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), common.ErrInvalidInput)
	}
	if err := s.validator.ValidateCapacity(in.Capacity); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), common.ErrInvalidInput)
	}
	if in.Capacity < ev.RegisteredCount {
		return nil, fmt.Errorf("nombre_places ne peut pas être inférieur aux inscrits: %w", common.ErrInvalidInput)
	}

	if in.Status != "" {
		parsed, valid := event.StatusFromString(in.Status)
		if !valid {
			return nil, fmt.Errorf("statut invalide %q: %w", in.Status, common.ErrInvalidInput)
		}
		ev.Status = parsed
	}

	ev.Title = in.Title
	ev.Description = in.Description
	ev.Location = in.Location
	ev.StartTime = in.StartTime
	ev.EndTime = in.EndTime
	ev.ImageURL = in.ImageURL
	ev.Tags = in.Tags
	ev.Capacity = in.Capacity
	ev.EventDate = in.EventDate

	if err := s.eventRepo.Update(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// Cancel soft-deletes an event by moving it to the cancelled state. Same
// access rule as Update.
func (s *EventService) Cancel(id string, actor Actor) error {
	ev, err := s.eventRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("évènement introuvable: %w", common.ErrNotFound)
		}
		return err
	}

	if !actor.canManage(ev) {
		return fmt.Errorf("opération réservée au créateur ou à un administrateur: %w", common.ErrForbidden)
	}

	err = s.eventRepo.UpdateStatus(id, event.StatusCancelled)
	if errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("évènement introuvable: %w", common.ErrNotFound)
	}
	return err
}
