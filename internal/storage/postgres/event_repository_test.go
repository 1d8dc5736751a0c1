package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierlibre/paroisse-api/internal/domain/common"
	"github.com/atelierlibre/paroisse-api/internal/domain/event"
)

func newStoredEvent(t *testing.T, repo *GormEventRepository, capacity int) *event.Event {
	t.Helper()

	ev := event.NewEvent(
		"Concert de louange "+uuid.NewString()[:8],
		"Soirée musicale",
		"Grande salle",
		capacity,
		uuid.New(),
		time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	)
	ev.Status = event.StatusPublished
	require.NoError(t, repo.Create(ev))
	return ev
}

func TestGormEventRepository_CRUD(t *testing.T) {
	repo := NewGormEventRepository(newTestDB(t))

	t.Run("create and get by id", func(t *testing.T) {
		ev := newStoredEvent(t, repo, 50)

		got, err := repo.GetByID(ev.ID.String())
		require.NoError(t, err)
		assert.Equal(t, ev.Slug, got.Slug)
		assert.Equal(t, event.StatusPublished, got.Status)
		assert.Equal(t, 50, got.Capacity)
	})

	t.Run("get by slug", func(t *testing.T) {
		ev := newStoredEvent(t, repo, 10)

		got, err := repo.GetBySlug(ev.Slug)
		require.NoError(t, err)
		assert.Equal(t, ev.ID, got.ID)

		_, err = repo.GetBySlug("slug-inconnu")
		require.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("unknown and malformed ids map to not found", func(t *testing.T) {
		_, err := repo.GetByID(uuid.NewString())
		require.ErrorIs(t, err, common.ErrNotFound)

		_, err = repo.GetByID("pas-un-uuid")
		require.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("create rejects an invalid event", func(t *testing.T) {
		ev := event.NewEvent("", "", "", 0, uuid.Nil, time.Now())
		require.Error(t, repo.Create(ev))
	})

	t.Run("slug exists", func(t *testing.T) {
		ev := newStoredEvent(t, repo, 10)

		exists, err := repo.SlugExists(ev.Slug)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.SlugExists("slug-libre")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("update status", func(t *testing.T) {
		ev := newStoredEvent(t, repo, 10)

		require.NoError(t, repo.UpdateStatus(ev.ID.String(), event.StatusCancelled))

		got, err := repo.GetByID(ev.ID.String())
		require.NoError(t, err)
		assert.Equal(t, event.StatusCancelled, got.Status)

		require.ErrorIs(t, repo.UpdateStatus(uuid.NewString(), event.StatusCancelled), common.ErrNotFound)
	})

	t.Run("filter by status", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormEventRepository(db)

		published := newStoredEvent(t, repo, 10)
		draft := event.NewEvent("Réunion préparatoire", "Ordre du jour", "Salle B", 20, uuid.New(), time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, repo.Create(draft))

		events, err := repo.GetAll("publie", "")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, published.ID, events[0].ID)

		events, err = repo.GetAll("", "")
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})
}

func TestGormEventRepository_ClaimSeat(t *testing.T) {
	repo := NewGormEventRepository(newTestDB(t))

	t.Run("claims until capacity then refuses", func(t *testing.T) {
		ev := newStoredEvent(t, repo, 2)

		require.NoError(t, repo.ClaimSeat(ev.ID))
		require.NoError(t, repo.ClaimSeat(ev.ID))
		require.ErrorIs(t, repo.ClaimSeat(ev.ID), common.ErrCapacityExceeded)

		got, err := repo.GetByID(ev.ID.String())
		require.NoError(t, err)
		assert.Equal(t, 2, got.RegisteredCount)
	})

	t.Run("release gives the seat back", func(t *testing.T) {
		ev := newStoredEvent(t, repo, 1)

		require.NoError(t, repo.ClaimSeat(ev.ID))
		require.ErrorIs(t, repo.ClaimSeat(ev.ID), common.ErrCapacityExceeded)

		require.NoError(t, repo.ReleaseSeat(ev.ID))
		require.NoError(t, repo.ClaimSeat(ev.ID))
	})

	t.Run("release never goes below zero", func(t *testing.T) {
		ev := newStoredEvent(t, repo, 3)

		require.NoError(t, repo.ReleaseSeat(ev.ID))

		got, err := repo.GetByID(ev.ID.String())
		require.NoError(t, err)
		assert.Equal(t, 0, got.RegisteredCount)
	})

	t.Run("unknown event claims nothing", func(t *testing.T) {
		require.ErrorIs(t, repo.ClaimSeat(uuid.New()), common.ErrCapacityExceeded)
	})

	t.Run("claimed seat survives an edit from a stale read", func(t *testing.T) {
		ev := newStoredEvent(t, repo, 5)

		stale, err := repo.GetByID(ev.ID.String())
		require.NoError(t, err)

		require.NoError(t, repo.ClaimSeat(ev.ID))

		stale.Title = "Concert de louange (salle B)"
		stale.Location = "Salle B"
		require.NoError(t, repo.Update(stale))

		got, err := repo.GetByID(ev.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "Salle B", got.Location)
		assert.Equal(t, 1, got.RegisteredCount)
	})
}
