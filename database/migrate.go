package database

import (
	"fmt"

	"skyjobs/internal/logger"
	"skyjobs/internal/models"

	"gorm.io/gorm"
)

// Models - все модели в порядке зависимостей внешних ключей
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Job{},
		&models.Polygon{},
		&models.Folder{},
		&models.File{},
		&models.CertFile{},
	}
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("Database migrated", "tables", len(Models()))
	return nil
}
