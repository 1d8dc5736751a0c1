package event

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromString(t *testing.T) {
	for _, valid := range []string{"brouillon", "publie", "annule", "termine"} {
		status, ok := StatusFromString(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, valid, status.String())
	}

	_, ok := StatusFromString("archive")
	assert.False(t, ok)
}

func TestNewEvent(t *testing.T) {
	creator := uuid.New()
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	ev := NewEvent("Concert de Noël 2026", "Soirée musicale", "Église Saint-Pierre", 120, creator, date)

	assert.NotEqual(t, uuid.Nil, ev.ID)
	assert.Equal(t, "concert-de-noel-2026", ev.Slug)
	assert.Equal(t, StatusDraft, ev.Status)
	assert.Equal(t, 0, ev.RegisteredCount)
	assert.Equal(t, creator, ev.CreatorID)
	require.NoError(t, ev.Validate())
}

func TestMakeSlug(t *testing.T) {
	cases := map[string]string{
		"Concert de louange":   "concert-de-louange",
		"Fête de l'Été!":       "fete-de-l-ete",
		"  Réunion   (privée)": "reunion-privee",
	}
	for title, want := range cases {
		assert.Equal(t, want, MakeSlug(title), title)
	}
}

func TestEvent_IsOpenForRegistration(t *testing.T) {
	now := time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC)

	base := func() *Event {
		ev := NewEvent("Concert", "desc", "salle", 10, uuid.New(), now.AddDate(0, 0, 7))
		ev.Status = StatusPublished
		return ev
	}

	t.Run("published future event is open", func(t *testing.T) {
		assert.NoError(t, base().IsOpenForRegistration(now))
	})

	t.Run("same day is still open regardless of hour", func(t *testing.T) {
		ev := base()
		ev.EventDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		assert.NoError(t, ev.IsOpenForRegistration(now))
	})

	t.Run("past date is closed", func(t *testing.T) {
		ev := base()
		ev.EventDate = now.AddDate(0, 0, -1)
		assert.Error(t, ev.IsOpenForRegistration(now))
	})

	t.Run("non-published statuses are closed", func(t *testing.T) {
		for _, status := range []Status{StatusDraft, StatusCancelled, StatusFinished} {
			ev := base()
			ev.Status = status
			assert.Error(t, ev.IsOpenForRegistration(now), status)
		}
	})
}

func TestEvent_Capacity(t *testing.T) {
	ev := NewEvent("Concert", "desc", "salle", 3, uuid.New(), time.Now())

	assert.False(t, ev.IsFull())
	assert.Equal(t, 3, ev.RemainingSeats())

	ev.RegisteredCount = 3
	assert.True(t, ev.IsFull())
	assert.Equal(t, 0, ev.RemainingSeats())

	// An overshoot never yields negative seats.
	ev.RegisteredCount = 5
	assert.True(t, ev.IsFull())
	assert.Equal(t, 0, ev.RemainingSeats())
}

func TestEvent_Validate(t *testing.T) {
	valid := NewEvent("Concert", "desc", "salle", 10, uuid.New(), time.Now())
	require.NoError(t, valid.Validate())

	t.Run("missing fields", func(t *testing.T) {
		cases := []func(*Event){
			func(e *Event) { e.Title = "" },
			func(e *Event) { e.Description = "" },
			func(e *Event) { e.Location = "" },
			func(e *Event) { e.Capacity = 0 },
			func(e *Event) { e.CreatorID = uuid.Nil },
		}
		for _, mutate := range cases {
			ev := NewEvent("Concert", "desc", "salle", 10, uuid.New(), time.Now())
			mutate(ev)
			assert.Error(t, ev.Validate())
		}
	})
}
