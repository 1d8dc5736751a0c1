package migrations

import (
	"github.com/atelierlibre/paroisse-api/internal/domain/event"
	"github.com/atelierlibre/paroisse-api/internal/domain/newsletter"
	"github.com/atelierlibre/paroisse-api/internal/domain/registration"
	"github.com/atelierlibre/paroisse-api/internal/domain/subscriber"
	"github.com/atelierlibre/paroisse-api/internal/domain/user"
)

// AllModels returns every model handled by the core-tables migration, in
// dependency order (referenced tables first).
func AllModels() []any {
	return []any{
		&user.User{},
		&event.Event{},
		&registration.Registration{},
		&subscriber.Subscriber{},
		&newsletter.Newsletter{},
		&newsletter.Recipient{},
	}
}
