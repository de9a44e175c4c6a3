package db

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"airwise/internal/boundary"
	"airwise/internal/logger"
)

// Init opens the sqlite database and migrates the schema.
func Init(path string) (*gorm.DB, error) {
	database, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := database.AutoMigrate(&ObjectEntity{}, &UserEntity{}, &CommandEntity{}); err != nil {
		return nil, err
	}

	return database, nil
}

// Seed makes sure the built-in accounts exist: an admin for the export and
// delete-all surface, and the internal system operator used as the creator
// of system-generated objects.
func Seed(database *gorm.DB, systemID, sep string) {
	seedUser(database, UserEntity{
		ID:       systemID + sep + "admin@airwise.com",
		Role:     boundary.RoleAdmin,
		Username: "Administrator",
		Avatar:   "Administrator",
	})
	seedUser(database, UserEntity{
		ID:       systemID + sep + "SystemOperator@airwise.com",
		Role:     boundary.RoleOperator,
		Username: "InternalSystemOperator",
		Avatar:   "InternalSystemOperator",
	})
}

func seedUser(database *gorm.DB, user UserEntity) {
	var count int64
	database.Model(&UserEntity{}).Where("id = ?", user.ID).Count(&count)
	if count == 0 {
		if err := database.Create(&user).Error; err != nil {
			logger.Error("failed to seed user %s: %v", user.ID, err)
		} else {
			logger.Info("seeded user %s", user.ID)
		}
	}
}
