package migrations

import "gorm.io/gorm"

// migration005Up inserts a bootstrap admin account for local development.
// Password is "admin123" (bcrypt, cost 10); change it on any real deployment.
func migration005Up(db *gorm.DB) error {
	return db.Exec(`
        INSERT INTO utilisateurs (id, nom_complet, email, role, mot_de_passe, created_at, updated_at)
        VALUES (
            uuid_generate_v4(),
            'Administrateur',
            'admin@paroisse.local',
            'admin',
            '$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy',
            CURRENT_TIMESTAMP,
            CURRENT_TIMESTAMP
        )
        ON CONFLICT (email) DO NOTHING
    `).Error
}

// migration005Down removes the bootstrap admin account
func migration005Down(db *gorm.DB) error {
	return db.Exec("DELETE FROM utilisateurs WHERE email = 'admin@paroisse.local'").Error
}
