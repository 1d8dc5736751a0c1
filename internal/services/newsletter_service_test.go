package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierlibre/paroisse-api/internal/clock"
	"github.com/atelierlibre/paroisse-api/internal/domain/common"
	"github.com/atelierlibre/paroisse-api/internal/domain/newsletter"
	"github.com/atelierlibre/paroisse-api/internal/domain/subscriber"
	"github.com/atelierlibre/paroisse-api/internal/mailer"

	"github.com/google/uuid"
)

func TestNewsletterService_Create(t *testing.T) {
	t.Run("creates a draft", func(t *testing.T) {
		nlRepo := newFakeNewsletterRepo()
		svc := NewNewsletterService(nlRepo, newFakeSubscriberRepo(), mailer.NewNotifier(newFakeSender()), clock.NewFixed(testNow))

		nl, err := svc.Create("Bulletin de septembre", "<p>Bonjour à tous</p>")
		require.NoError(t, err)
		assert.Equal(t, newsletter.StatusDraft, nl.Status)
		assert.Len(t, nlRepo.newsletters, 1)
	})

	t.Run("rejects empty subject or content", func(t *testing.T) {
		svc := NewNewsletterService(newFakeNewsletterRepo(), newFakeSubscriberRepo(), mailer.NewNotifier(newFakeSender()), clock.NewFixed(testNow))

		_, err := svc.Create("", "<p>contenu</p>")
		require.ErrorIs(t, err, common.ErrInvalidInput)

		_, err = svc.Create("Sujet", "  ")
		require.ErrorIs(t, err, common.ErrInvalidInput)
	})
}

func TestNewsletterService_Send(t *testing.T) {
	t.Run("a failed recipient does not stop the batch", func(t *testing.T) {
		nl := newsletter.NewNewsletter("Bulletin", "<p>Bonjour</p>")
		nlRepo := newFakeNewsletterRepo(nl)

		sender := newFakeSender()
		sender.failFor["jean@example.org"] = errors.New("smtp: mailbox unavailable")
		subRepo := newFakeSubscriberRepo(
			subscriber.NewSubscriber("Marie", "marie@example.org", testNow),
			subscriber.NewSubscriber("Jean", "jean@example.org", testNow),
			subscriber.NewSubscriber("Claire", "claire@example.org", testNow),
		)

		svc := NewNewsletterService(nlRepo, subRepo, mailer.NewNotifier(sender), clock.NewFixed(testNow))

		sent, report, err := svc.Send(context.Background(), nl.ID.String())
		require.NoError(t, err)

		assert.Equal(t, []string{"marie@example.org", "jean@example.org", "claire@example.org"}, sender.attemptedAddresses())
		assert.Equal(t, 2, report.Sent)
		assert.Equal(t, 1, report.Failed)

		assert.Equal(t, newsletter.StatusSent, sent.Status)
		require.NotNil(t, sent.SentAt)
		assert.Equal(t, testNow, *sent.SentAt)

		recs, err := nlRepo.GetRecipients(nl.ID)
		require.NoError(t, err)
		require.Len(t, recs, 3)

		failed := 0
		for _, rec := range recs {
			if rec.Status == newsletter.RecipientFailed {
				failed++
			} else {
				assert.Equal(t, newsletter.RecipientSent, rec.Status)
			}
		}
		assert.Equal(t, 1, failed)
	})

	t.Run("already sent", func(t *testing.T) {
		nl := newsletter.NewNewsletter("Bulletin", "<p>Bonjour</p>")
		nl.MarkSent(testNow.Add(-time.Hour))
		svc := NewNewsletterService(newFakeNewsletterRepo(nl), newFakeSubscriberRepo(), mailer.NewNotifier(newFakeSender()), clock.NewFixed(testNow))

		_, _, err := svc.Send(context.Background(), nl.ID.String())
		require.ErrorIs(t, err, common.ErrInvalidState)
	})

	t.Run("unknown newsletter", func(t *testing.T) {
		svc := NewNewsletterService(newFakeNewsletterRepo(), newFakeSubscriberRepo(), mailer.NewNotifier(newFakeSender()), clock.NewFixed(testNow))

		_, _, err := svc.Send(context.Background(), uuid.NewString())
		require.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestNewsletterService_Schedule(t *testing.T) {
	t.Run("schedules a draft", func(t *testing.T) {
		nl := newsletter.NewNewsletter("Bulletin", "<p>Bonjour</p>")
		svc := NewNewsletterService(newFakeNewsletterRepo(nl), newFakeSubscriberRepo(), mailer.NewNotifier(newFakeSender()), clock.NewFixed(testNow))

		at := testNow.Add(2 * time.Hour)
		scheduled, err := svc.Schedule(nl.ID.String(), at)
		require.NoError(t, err)
		assert.Equal(t, newsletter.StatusScheduled, scheduled.Status)
		require.NotNil(t, scheduled.ScheduledAt)
		assert.Equal(t, at, *scheduled.ScheduledAt)
	})

	t.Run("rejects a past instant", func(t *testing.T) {
		nl := newsletter.NewNewsletter("Bulletin", "<p>Bonjour</p>")
		svc := NewNewsletterService(newFakeNewsletterRepo(nl), newFakeSubscriberRepo(), mailer.NewNotifier(newFakeSender()), clock.NewFixed(testNow))

		_, err := svc.Schedule(nl.ID.String(), testNow.Add(-time.Minute))
		require.ErrorIs(t, err, common.ErrInvalidInput)
	})

	t.Run("rejects an already sent newsletter", func(t *testing.T) {
		nl := newsletter.NewNewsletter("Bulletin", "<p>Bonjour</p>")
		nl.MarkSent(testNow.Add(-time.Hour))
		svc := NewNewsletterService(newFakeNewsletterRepo(nl), newFakeSubscriberRepo(), mailer.NewNotifier(newFakeSender()), clock.NewFixed(testNow))

		_, err := svc.Schedule(nl.ID.String(), testNow.Add(time.Hour))
		require.ErrorIs(t, err, common.ErrInvalidState)
	})
}

func TestNewsletterService_ProcessScheduled(t *testing.T) {
	due1 := newsletter.NewNewsletter("Bulletin 1", "<p>Un</p>")
	require.NoError(t, due1.Schedule(testNow.Add(-time.Hour)))
	due2 := newsletter.NewNewsletter("Bulletin 2", "<p>Deux</p>")
	require.NoError(t, due2.Schedule(testNow))
	later := newsletter.NewNewsletter("Bulletin 3", "<p>Trois</p>")
	require.NoError(t, later.Schedule(testNow.Add(time.Hour)))

	nlRepo := newFakeNewsletterRepo(due1, due2, later)
	subRepo := newFakeSubscriberRepo(subscriber.NewSubscriber("Marie", "marie@example.org", testNow))
	sender := newFakeSender()

	svc := NewNewsletterService(nlRepo, subRepo, mailer.NewNotifier(sender), clock.NewFixed(testNow))

	processed, err := svc.ProcessScheduled(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, processed)

	// One message per due newsletter for the single subscriber.
	assert.Len(t, sender.attempts, 2)

	sent1, err := nlRepo.GetByID(due1.ID.String())
	require.NoError(t, err)
	assert.Equal(t, newsletter.StatusSent, sent1.Status)

	untouched, err := nlRepo.GetByID(later.ID.String())
	require.NoError(t, err)
	assert.Equal(t, newsletter.StatusScheduled, untouched.Status)
}
