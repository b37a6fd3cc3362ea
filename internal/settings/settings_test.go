package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/petgasmx/petgas-portal/internal/models"
)

func TestSnapshotValueParsing(t *testing.T) {
	Store(time.Now(), map[string]json.RawMessage{
		PortalNameKey:        json.RawMessage(`"Coastal Cleanup"`),
		AnnouncementKey:      json.RawMessage(`{"value":"maintenance tonight"}`),
		MaxEvidenceImagesKey: json.RawMessage(`3`),
		"BROKEN":             json.RawMessage(`{not json`),
	})
	t.Cleanup(func() { Store(time.Time{}, nil) })

	if got := String(PortalNameKey, DefaultPortalName); got != "Coastal Cleanup" {
		t.Fatalf("portal name = %q", got)
	}
	if got := String(AnnouncementKey, ""); got != "maintenance tonight" {
		t.Fatalf("announcement = %q", got)
	}
	if got := Int(MaxEvidenceImagesKey, DefaultMaxEvidenceImages); got != 3 {
		t.Fatalf("max images = %d", got)
	}
	if got := String("BROKEN", "fallback"); got != "fallback" {
		t.Fatalf("broken value = %q, want fallback", got)
	}
	if got := String("MISSING", "fallback"); got != "fallback" {
		t.Fatalf("missing value = %q, want fallback", got)
	}
}

func TestRefreshLoadsRowsFromDatabase(t *testing.T) {
	dsn := fmt.Sprintf("file:settings_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(&models.Setting{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	row := models.Setting{Key: PortalNameKey, Value: json.RawMessage(`"Petgas MX"`), UpdatedAt: time.Now().UTC()}
	if errCreate := conn.Create(&row).Error; errCreate != nil {
		t.Fatalf("create setting: %v", errCreate)
	}
	t.Cleanup(func() { Store(time.Time{}, nil) })

	if errRefresh := Refresh(context.Background(), conn); errRefresh != nil {
		t.Fatalf("refresh: %v", errRefresh)
	}
	if got := String(PortalNameKey, DefaultPortalName); got != "Petgas MX" {
		t.Fatalf("portal name = %q", got)
	}
	if UpdatedAt().IsZero() {
		t.Fatal("expected a non-zero updated_at")
	}
}
