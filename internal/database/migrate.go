package database

import (
	"gorm.io/gorm"

	"github.com/pageza/ladlehub/backend/internal/models"
)

// Migrate applies the gorm schema for every entity. Ordering matters only
// for readability; gorm resolves foreign keys itself.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.MeasurementUnit{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Marking{},
	)
}
