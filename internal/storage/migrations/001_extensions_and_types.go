package migrations

import "gorm.io/gorm"

// migration001Up creates extensions and custom types
func migration001Up(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return err
	}

	if err := db.Exec(`
        CREATE TYPE event_status AS ENUM (
            'brouillon',
            'publie',
            'annule',
            'termine'
        )
    `).Error; err != nil {
		return err
	}

	if err := db.Exec(`
        CREATE TYPE registration_type AS ENUM (
            'utilisateur',
            'visiteur'
        )
    `).Error; err != nil {
		return err
	}

	if err := db.Exec(`
        CREATE TYPE subscriber_status AS ENUM (
            'actif',
            'inactif',
            'desabonne'
        )
    `).Error; err != nil {
		return err
	}

	if err := db.Exec(`
        CREATE TYPE newsletter_status AS ENUM (
            'brouillon',
            'programmee',
            'envoyee'
        )
    `).Error; err != nil {
		return err
	}

	if err := db.Exec(`
        CREATE TYPE recipient_status AS ENUM (
            'envoye',
            'echec'
        )
    `).Error; err != nil {
		return err
	}

	if err := db.Exec(`
        CREATE TYPE user_role AS ENUM (
            'admin',
            'membre'
        )
    `).Error; err != nil {
		return err
	}

	return nil
}

// migration001Down drops custom types
func migration001Down(db *gorm.DB) error {
	types := []string{
		"user_role",
		"recipient_status",
		"newsletter_status",
		"subscriber_status",
		"registration_type",
		"event_status",
	}

	for _, t := range types {
		if err := db.Exec("DROP TYPE IF EXISTS " + t + " CASCADE").Error; err != nil {
			return err
		}
	}

	// NOTE: We don't drop the UUID extension as it might be used by other applications
	return nil
}
