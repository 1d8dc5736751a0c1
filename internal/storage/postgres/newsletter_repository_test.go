package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierlibre/paroisse-api/internal/domain/common"
	"github.com/atelierlibre/paroisse-api/internal/domain/newsletter"
)

func TestGormNewsletterRepository(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	t.Run("create and get", func(t *testing.T) {
		repo := NewGormNewsletterRepository(newTestDB(t))

		nl := newsletter.NewNewsletter("Bulletin de septembre", "<p>Bonjour</p>")
		require.NoError(t, repo.Create(nl))

		got, err := repo.GetByID(nl.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "Bulletin de septembre", got.Subject)
		assert.Equal(t, newsletter.StatusDraft, got.Status)

		_, err = repo.GetByID(uuid.NewString())
		require.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("find due returns only scheduled newsletters whose time has come", func(t *testing.T) {
		repo := NewGormNewsletterRepository(newTestDB(t))

		due := newsletter.NewNewsletter("Bulletin 1", "<p>Un</p>")
		require.NoError(t, due.Schedule(now.Add(-time.Hour)))
		require.NoError(t, repo.Create(due))

		later := newsletter.NewNewsletter("Bulletin 2", "<p>Deux</p>")
		require.NoError(t, later.Schedule(now.Add(time.Hour)))
		require.NoError(t, repo.Create(later))

		draft := newsletter.NewNewsletter("Bulletin 3", "<p>Trois</p>")
		require.NoError(t, repo.Create(draft))

		found, err := repo.FindDue(now)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, due.ID, found[0].ID)
	})

	t.Run("update marks a newsletter sent", func(t *testing.T) {
		repo := NewGormNewsletterRepository(newTestDB(t))

		nl := newsletter.NewNewsletter("Bulletin", "<p>Bonjour</p>")
		require.NoError(t, repo.Create(nl))

		nl.MarkSent(now)
		require.NoError(t, repo.Update(nl))

		got, err := repo.GetByID(nl.ID.String())
		require.NoError(t, err)
		assert.Equal(t, newsletter.StatusSent, got.Status)
		require.NotNil(t, got.SentAt)
	})

	t.Run("recipient records", func(t *testing.T) {
		repo := NewGormNewsletterRepository(newTestDB(t))

		nl := newsletter.NewNewsletter("Bulletin", "<p>Bonjour</p>")
		require.NoError(t, repo.Create(nl))

		okID, failedID := uuid.New(), uuid.New()
		require.NoError(t, repo.CreateRecipient(&newsletter.Recipient{
			NewsletterID: nl.ID, SubscriberID: okID, Status: newsletter.RecipientSent, SentAt: now,
		}))
		require.NoError(t, repo.CreateRecipient(&newsletter.Recipient{
			NewsletterID: nl.ID, SubscriberID: failedID, Status: newsletter.RecipientFailed, SentAt: now,
		}))

		recs, err := repo.GetRecipients(nl.ID)
		require.NoError(t, err)
		require.Len(t, recs, 2)

		byID := map[uuid.UUID]newsletter.RecipientStatus{}
		for _, rec := range recs {
			byID[rec.SubscriberID] = rec.Status
		}
		assert.Equal(t, newsletter.RecipientSent, byID[okID])
		assert.Equal(t, newsletter.RecipientFailed, byID[failedID])
	})
}
