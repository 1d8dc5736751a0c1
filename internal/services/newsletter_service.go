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
	"github.com/atelierlibre/paroisse-api/internal/domain/newsletter"
	"github.com/atelierlibre/paroisse-api/internal/logger"
	"github.com/atelierlibre/paroisse-api/internal/mailer"
	"github.com/atelierlibre/paroisse-api/internal/storage/postgres"
	"github.com/atelierlibre/paroisse-api/internal/validation"
)

// NewsletterService handles newsletter drafting, scheduling and the
// continue-on-error batch send with per-recipient outcome records.
type NewsletterService struct {
	nlRepo   postgres.NewsletterRepository
	subRepo  postgres.SubscriberRepository
	notifier *mailer.Notifier
	clock    clock.Clock
	log      *log.Logger
}

// NewNewsletterService creates a new newsletter service
func NewNewsletterService(
	nlRepo postgres.NewsletterRepository,
	subRepo postgres.SubscriberRepository,
	notifier *mailer.Notifier,
	clk clock.Clock,
) *NewsletterService {
	return &NewsletterService{
		nlRepo:   nlRepo,
		subRepo:  subRepo,
		notifier: notifier,
		clock:    clk,
		log:      logger.Service("newsletter"),
	}
}

// Create persists a draft newsletter.
func (s *NewsletterService) Create(subject, content string) (*newsletter.Newsletter, error) {
	if err := validation.ValidateRequired(subject, "sujet"); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), common.ErrInvalidInput)
	}
	if err := validation.ValidateRequired(content, "contenu"); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), common.ErrInvalidInput)
	}

	nl := newsletter.NewNewsletter(subject, content)
	if err := s.nlRepo.Create(nl); err != nil {
		return nil, err
	}
	return nl, nil
}

// GetByID returns a single newsletter.
func (s *NewsletterService) GetByID(id string) (*newsletter.Newsletter, error) {
	return s.nlRepo.GetByID(id)
}

// List returns all newsletters, newest first.
func (s *NewsletterService) List() ([]*newsletter.Newsletter, error) {
	return s.nlRepo.GetAll()
}

// Schedule sets a newsletter to go out at the given instant.
func (s *NewsletterService) Schedule(id string, at time.Time) (*newsletter.Newsletter, error) {
	nl, err := s.nlRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("newsletter introuvable: %w", common.ErrNotFound)
		}
		return nil, err
	}

	if at.Before(s.clock.Now()) {
		return nil, fmt.Errorf("date_programmee cannot be in the past: %w", common.ErrInvalidInput)
	}
	if err := nl.Schedule(at); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), common.ErrInvalidState)
	}

	if err := s.nlRepo.Update(nl); err != nil {
		return nil, err
	}
	return nl, nil
}

// SendReport summarizes one newsletter send.
type SendReport struct {
	Sent   int `json:"envoyes"`
	Failed int `json:"echecs"`
}

// Send delivers a newsletter to every active subscriber. Individual failures
// do not stop the batch; each recipient gets an outcome row and the
// newsletter is marked sent once the loop completes.
func (s *NewsletterService) Send(ctx context.Context, id string) (*newsletter.Newsletter, SendReport, error) {
	nl, err := s.nlRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, SendReport{}, fmt.Errorf("newsletter introuvable: %w", common.ErrNotFound)
		}
		return nil, SendReport{}, err
	}

	if !nl.CanSend() {
		return nil, SendReport{}, fmt.Errorf("la newsletter a déjà été envoyée: %w", common.ErrInvalidState)
	}

	return s.send(ctx, nl)
}

func (s *NewsletterService) send(ctx context.Context, nl *newsletter.Newsletter) (*newsletter.Newsletter, SendReport, error) {
	subs, err := s.subRepo.GetAllActive()
	if err != nil {
		return nil, SendReport{}, err
	}

	recipients := make([]mailer.Recipient, 0, len(subs))
	for _, sub := range subs {
		recipients = append(recipients, mailer.Recipient{
			ID:    sub.ID.String(),
			Name:  sub.FullName,
			Email: sub.Email,
		})
	}

	report := s.notifier.Fanout(ctx, recipients, mailer.ContinueAndCollect, func(rcpt mailer.Recipient) mailer.Message {
		return mailer.BuildNewsletter(rcpt, nl.Subject, nl.Content)
	})

	sendReport := SendReport{}
	for _, result := range report.Results {
		status := newsletter.RecipientSent
		if result.Err != nil {
			status = newsletter.RecipientFailed
			sendReport.Failed++
		} else {
			sendReport.Sent++
		}

		subscriberID, err := uuid.Parse(result.Recipient.ID)
		if err != nil {
			s.log.Error("Invalid subscriber ID in fan-out result", "id", result.Recipient.ID, "error", err)
			continue
		}
		if err := s.nlRepo.CreateRecipient(&newsletter.Recipient{
			NewsletterID: nl.ID,
			SubscriberID: subscriberID,
			Status:       status,
			SentAt:       s.clock.Now(),
		}); err != nil {
			s.log.Error("Failed to record newsletter recipient",
				"newsletter_id", nl.ID, "abonne_id", subscriberID, "error", err)
		}
	}

	nl.MarkSent(s.clock.Now())
	if err := s.nlRepo.Update(nl); err != nil {
		return nil, sendReport, err
	}

	s.log.Info("Newsletter sent",
		"newsletter_id", nl.ID, "envoyes", sendReport.Sent, "echecs", sendReport.Failed)
	return nl, sendReport, nil
}

// ProcessScheduled sends every scheduled newsletter whose time has come. It
// is invoked by an external scheduler; there is no internal timer.
func (s *NewsletterService) ProcessScheduled(ctx context.Context) (int, error) {
	due, err := s.nlRepo.FindDue(s.clock.Now())
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, nl := range due {
		if _, _, err := s.send(ctx, nl); err != nil {
			s.log.Error("Failed to send scheduled newsletter", "newsletter_id", nl.ID, "error", err)
			continue
		}
		processed++
	}

	s.log.Info("Scheduled newsletter sweep finished", "due", len(due), "processed", processed)
	return processed, nil
}
