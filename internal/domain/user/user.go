package user

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role is an account's authorization level.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "membre"
)

// Scan implements the sql.Scanner interface for database deserialization
func (r *Role) Scan(value any) error {
	if value == nil {
		*r = RoleMember
		return nil
	}
	if str, ok := value.(string); ok {
		switch Role(str) {
		case RoleAdmin, RoleMember:
			*r = Role(str)
			return nil
		}
		return fmt.Errorf("invalid user role value: %s", str)
	}
	return fmt.Errorf("cannot scan %T into Role", value)
}

// Value implements the driver.Valuer interface for database serialization
func (r Role) Value() (driver.Value, error) {
	return string(r), nil
}

// User is an account holder. Users own the events they create and any
// registrations made while signed in.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FullName     string    `json:"nom_complet" gorm:"column:nom_complet;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Role         Role      `json:"role" gorm:"type:user_role;not null;default:'membre'"`
	PasswordHash string    `json:"-" gorm:"column:mot_de_passe;not null"`
	AvatarURL    string    `json:"avatar_url" gorm:"column:avatar_url"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (User) TableName() string {
	return "utilisateurs"
}

// BeforeCreate sets a UUID before creating the record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// NewUser creates a member account with a bcrypt-hashed password.
func NewUser(fullName, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &User{
		ID:           uuid.New(),
		FullName:     fullName,
		Email:        email,
		Role:         RoleMember,
		PasswordHash: string(hash),
	}, nil
}

// CheckPassword compares a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
