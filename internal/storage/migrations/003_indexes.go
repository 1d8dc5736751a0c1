package migrations

import "gorm.io/gorm"

// migration003Up creates lookup and uniqueness indexes
func migration003Up(db *gorm.DB) error {
	indexes := []string{
		// One registration per (event, account) pair.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_inscriptions_event_user
            ON inscriptions_evenement (evenement_id, utilisateur_id)
            WHERE utilisateur_id IS NOT NULL`,

		// One guest registration per (event, email) pair.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_inscriptions_event_email
            ON inscriptions_evenement (evenement_id, LOWER(email))`,

		`CREATE INDEX IF NOT EXISTS idx_evenements_statut
            ON evenements (statut)`,

		`CREATE INDEX IF NOT EXISTS idx_evenements_date
            ON evenements (date_evenement)`,

		`CREATE INDEX IF NOT EXISTS idx_abonnes_statut
            ON abonnes (statut)`,

		`CREATE INDEX IF NOT EXISTS idx_newsletters_due
            ON newsletters (statut, date_programmee)`,

		`CREATE INDEX IF NOT EXISTS idx_newsletter_abonnes_newsletter
            ON newsletter_abonnes (newsletter_id)`,
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration003Down drops the indexes created above
func migration003Down(db *gorm.DB) error {
	indexes := []string{
		"idx_newsletter_abonnes_newsletter",
		"idx_newsletters_due",
		"idx_abonnes_statut",
		"idx_evenements_date",
		"idx_evenements_statut",
		"idx_inscriptions_event_email",
		"idx_inscriptions_event_user",
	}

	for _, index := range indexes {
		if err := db.Exec("DROP INDEX IF EXISTS " + index).Error; err != nil {
			return err
		}
	}

	return nil
}
