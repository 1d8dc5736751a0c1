package migrations

import "gorm.io/gorm"

// migration004Up creates foreign keys and check constraints
func migration004Up(db *gorm.DB) error {
	constraints := []string{
		// The capacity invariant lives in the database too, not only in the
		// conditional seat-claim UPDATE.
		`ALTER TABLE evenements
            ADD CONSTRAINT chk_evenements_capacite
            CHECK (nombre_inscrits >= 0 AND nombre_inscrits <= nombre_places)`,

		`ALTER TABLE evenements
            ADD CONSTRAINT fk_evenements_createur
            FOREIGN KEY (createur_id) REFERENCES utilisateurs(id)`,

		`ALTER TABLE inscriptions_evenement
            ADD CONSTRAINT fk_inscriptions_evenement
            FOREIGN KEY (evenement_id) REFERENCES evenements(id) ON DELETE CASCADE`,

		`ALTER TABLE inscriptions_evenement
            ADD CONSTRAINT fk_inscriptions_utilisateur
            FOREIGN KEY (utilisateur_id) REFERENCES utilisateurs(id) ON DELETE SET NULL`,

		`ALTER TABLE newsletter_abonnes
            ADD CONSTRAINT fk_newsletter_abonnes_newsletter
            FOREIGN KEY (newsletter_id) REFERENCES newsletters(id) ON DELETE CASCADE`,

		`ALTER TABLE newsletter_abonnes
            ADD CONSTRAINT fk_newsletter_abonnes_abonne
            FOREIGN KEY (abonne_id) REFERENCES abonnes(id) ON DELETE CASCADE`,
	}

	for _, constraint := range constraints {
		if err := db.Exec(constraint).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration004Down drops the constraints created above
func migration004Down(db *gorm.DB) error {
	drops := []string{
		"ALTER TABLE newsletter_abonnes DROP CONSTRAINT IF EXISTS fk_newsletter_abonnes_abonne",
		"ALTER TABLE newsletter_abonnes DROP CONSTRAINT IF EXISTS fk_newsletter_abonnes_newsletter",
		"ALTER TABLE inscriptions_evenement DROP CONSTRAINT IF EXISTS fk_inscriptions_utilisateur",
		"ALTER TABLE inscriptions_evenement DROP CONSTRAINT IF EXISTS fk_inscriptions_evenement",
		"ALTER TABLE evenements DROP CONSTRAINT IF EXISTS fk_evenements_createur",
		"ALTER TABLE evenements DROP CONSTRAINT IF EXISTS chk_evenements_capacite",
	}

	for _, drop := range drops {
		if err := db.Exec(drop).Error; err != nil {
			return err
		}
	}

	return nil
}
