package db

import (
	"fmt"

	"github.com/petgasmx/petgas-portal/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Migrate applies the schema for all portal entities.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	return conn.AutoMigrate(
		&models.Client{},
		&models.MitigationEntry{},
		&models.EvidenceImage{},
		&models.ConsumptionEntry{},
		&models.RewardDefinition{},
		&models.RewardLedgerEntry{},
		&models.ReviewEvent{},
		&models.Admin{},
		&models.Setting{},
	)
}

// SeedAdmin creates the initial admin account when no admin exists yet.
// hashedPassword must already be a bcrypt hash.
func SeedAdmin(conn *gorm.DB, username, hashedPassword string) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if username == "" || hashedPassword == "" {
		return nil
	}
	var count int64
	if errCount := conn.Model(&models.Admin{}).Count(&count).Error; errCount != nil {
		return fmt.Errorf("db: count admins: %w", errCount)
	}
	if count > 0 {
		return nil
	}
	admin := models.Admin{
		Username:    username,
		Password:    hashedPassword,
		Active:      true,
		Permissions: datatypes.JSON("[]"),
	}
	if errCreate := conn.Create(&admin).Error; errCreate != nil {
		return fmt.Errorf("db: seed admin: %w", errCreate)
	}
	return nil
}
