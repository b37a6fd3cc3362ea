package portal

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/petgasmx/petgas-portal/internal/db"
	"github.com/petgasmx/petgas-portal/internal/models"
	"github.com/petgasmx/petgas-portal/internal/storage"
)

// newTestService opens an in-memory database and a memory object store.
// MaxOpenConns is pinned to 1 so every connection sees the same database.
func newTestService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()

	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	sqlDB, errDB := conn.DB()
	if errDB != nil {
		t.Fatalf("sql db: %v", errDB)
	}
	sqlDB.SetMaxOpenConns(1)

	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	store := storage.NewMemoryStore("")
	return NewService(conn, store), store
}

// mustClient creates a profile for tests.
func mustClient(t *testing.T, svc *Service, email string) *models.Client {
	t.Helper()
	client, errCreate := svc.GetOrCreateProfile(context.Background(), email)
	if errCreate != nil {
		t.Fatalf("create client %s: %v", email, errCreate)
	}
	return client
}

// mustReward creates a reward definition for tests.
func mustReward(t *testing.T, svc *Service, name string, points int64) *models.RewardDefinition {
	t.Helper()
	def, errCreate := svc.CreateReward(context.Background(), RewardInput{Name: name, PointValue: points})
	if errCreate != nil {
		t.Fatalf("create reward %s: %v", name, errCreate)
	}
	return def
}

// balanceOf reloads a client's balance.
func balanceOf(t *testing.T, svc *Service, clientID string) int64 {
	t.Helper()
	client, errGet := svc.GetProfile(context.Background(), clientID)
	if errGet != nil {
		t.Fatalf("reload client: %v", errGet)
	}
	return client.PointBalance
}
