package postgres

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with the production schema
// reduced to portable column types. The conditional-UPDATE seat claim and
// every repository query run unchanged on it; only the Postgres array and
// enum types are mapped to TEXT.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	ddl := []string{
		`CREATE TABLE evenements (
			id TEXT PRIMARY KEY,
			titre TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			date_evenement DATETIME NOT NULL,
			heure_debut TEXT,
			heure_fin TEXT,
			lieu TEXT NOT NULL DEFAULT '',
			nombre_places INTEGER NOT NULL,
			nombre_inscrits INTEGER NOT NULL DEFAULT 0,
			statut TEXT NOT NULL DEFAULT 'brouillon',
			image_url TEXT,
			tags TEXT,
			createur_id TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE inscriptions_evenement (
			id TEXT PRIMARY KEY,
			evenement_id TEXT NOT NULL,
			utilisateur_id TEXT,
			nom_complet TEXT NOT NULL,
			email TEXT NOT NULL,
			sexe TEXT,
			telephone TEXT,
			type_inscription TEXT NOT NULL,
			statut TEXT NOT NULL DEFAULT 'confirmee',
			date_inscription DATETIME
		)`,
		`CREATE TABLE abonnes (
			id TEXT PRIMARY KEY,
			nom_complet TEXT,
			email TEXT NOT NULL UNIQUE,
			statut TEXT NOT NULL DEFAULT 'actif',
			date_abonnement DATETIME,
			date_desabonnement DATETIME
		)`,
		`CREATE TABLE newsletters (
			id TEXT PRIMARY KEY,
			sujet TEXT NOT NULL,
			contenu TEXT NOT NULL,
			statut TEXT NOT NULL DEFAULT 'brouillon',
			date_programmee DATETIME,
			date_envoi DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE newsletter_abonnes (
			id TEXT PRIMARY KEY,
			newsletter_id TEXT NOT NULL,
			abonne_id TEXT NOT NULL,
			statut TEXT NOT NULL,
			date_envoi DATETIME
		)`,
		`CREATE TABLE utilisateurs (
			id TEXT PRIMARY KEY,
			nom_complet TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL DEFAULT 'membre',
			mot_de_passe TEXT NOT NULL,
			avatar_url TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("failed to create test schema: %v", err)
		}
	}

	return db
}
