package database

import (
	"folio_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate brings the schema up to date with the model structs. Parent
// tables migrate before the tables referencing them.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Portfolio{},
		&models.PortfolioRight{},
		&models.Work{},
		&models.WorkRight{},
		&models.PortfolioCategory{},
		&models.WorkInCategory{},
		&models.WorkAttachment{},
		&models.WorkLink{},
		&models.WorkTag{},
		&models.BigFilePart{},
	)
}
