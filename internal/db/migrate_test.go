package db

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/petgasmx/petgas-portal/internal/models"
	"gorm.io/gorm"
)

func TestMigrateCreatesPortalTables(t *testing.T) {
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}

	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	for _, table := range []string{
		"clients",
		"mitigation_entries",
		"evidence_images",
		"consumption_entries",
		"reward_definitions",
		"reward_ledger_entries",
		"review_events",
		"admins",
		"settings",
	} {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}

	for _, column := range []string{"point_balance", "wallet_address", "secondary_wallet_address"} {
		if !conn.Migrator().HasColumn("clients", column) {
			t.Fatalf("clients missing column %s", column)
		}
	}
}

func TestSeedAdminCreatesOnlyWhenEmpty(t *testing.T) {
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	if errSeed := SeedAdmin(conn, "root", "$2a$12$hash"); errSeed != nil {
		t.Fatalf("seed: %v", errSeed)
	}
	if errSeed := SeedAdmin(conn, "other", "$2a$12$hash2"); errSeed != nil {
		t.Fatalf("second seed: %v", errSeed)
	}

	var admins []models.Admin
	if errFind := conn.Find(&admins).Error; errFind != nil {
		t.Fatalf("find admins: %v", errFind)
	}
	if len(admins) != 1 {
		t.Fatalf("expected 1 admin, got %d", len(admins))
	}
	if admins[0].Username != "root" {
		t.Fatalf("expected seeded admin root, got %s", admins[0].Username)
	}
}
