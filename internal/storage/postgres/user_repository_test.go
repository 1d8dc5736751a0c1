package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierlibre/paroisse-api/internal/domain/common"
	"github.com/atelierlibre/paroisse-api/internal/domain/user"
)

func TestGormUserRepository(t *testing.T) {
	repo := NewGormUserRepository(newTestDB(t))

	t.Run("create and fetch", func(t *testing.T) {
		u, err := user.NewUser("Jean Martin", "jean@example.org", "motdepasse123")
		require.NoError(t, err)
		require.NoError(t, repo.Create(u))

		byID, err := repo.GetByID(u.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "Jean Martin", byID.FullName)
		assert.True(t, byID.CheckPassword("motdepasse123"))

		byEmail, err := repo.GetByEmail("JEAN@example.org")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		u, err := user.NewUser("Autre Jean", "jean@example.org", "motdepasse456")
		require.NoError(t, err)
		require.ErrorIs(t, repo.Create(u), common.ErrConflict)
	})

	t.Run("unknown lookups", func(t *testing.T) {
		_, err := repo.GetByID(uuid.NewString())
		require.ErrorIs(t, err, common.ErrNotFound)

		_, err = repo.GetByID("pas-un-uuid")
		require.ErrorIs(t, err, common.ErrNotFound)

		_, err = repo.GetByEmail("inconnu@example.org")
		require.ErrorIs(t, err, common.ErrNotFound)
	})
}
