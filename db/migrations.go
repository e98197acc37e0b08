package db

import (
	"fmt"

	"gorm.io/gorm"

	"socialweb/models"
)

// Migrate создает таблицу client_storage
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.KeyValue{}); err != nil {
		return fmt.Errorf("failed to migrate client storage: %w", err)
	}
	return nil
}
