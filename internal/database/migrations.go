package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/hirementis/hirementis/internal/models"
	"github.com/hirementis/hirementis/pkg/crypto"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.OTPRequest{},
		&models.Job{},
		&models.Feedback{},
		&models.CacheEntry{},
	)
}

// AdminSeed describes the bootstrap administrator account.
type AdminSeed struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// EnsureAdminUser creates the bootstrap administrator when it does not exist
// and promotes the record if it does. A blank seed is a no-op so deployments
// can manage admins manually.
func EnsureAdminUser(db *gorm.DB, seed AdminSeed) error {
	email := strings.ToLower(strings.TrimSpace(seed.Email))
	if email == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		if existing.IsAdmin {
			return nil
		}
		return db.Model(&existing).Update("is_admin", true).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to create
	default:
		return err
	}

	if seed.Password == "" {
		return errors.New("admin seed requires a password")
	}

	hash, err := crypto.HashPassword(seed.Password)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:     email,
		Password:  hash,
		FirstName: seed.FirstName,
		LastName:  seed.LastName,
		IsAdmin:   true,
	}
	return db.Create(&admin).Error
}
