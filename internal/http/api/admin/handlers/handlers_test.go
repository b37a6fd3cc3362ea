package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	dbutil "github.com/petgasmx/petgas-portal/internal/db"
	"github.com/petgasmx/petgas-portal/internal/models"
	"github.com/petgasmx/petgas-portal/internal/portal"
	"github.com/petgasmx/petgas-portal/internal/storage"
)

func setupHandlerDB(t *testing.T) (*gorm.DB, *portal.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:admin_handlers_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := dbutil.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return conn, portal.NewService(conn, storage.NewMemoryStore("memory://test"))
}

// withAdminID injects an authenticated admin id the way the auth
// middleware does.
func withAdminID(id uint64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("adminID", id)
		c.Next()
	}
}

func mustClientRow(t *testing.T, conn *gorm.DB, id, email string) models.Client {
	t.Helper()
	client := models.Client{ID: id, Email: email, DisplayName: "Test Client"}
	if errCreate := conn.Create(&client).Error; errCreate != nil {
		t.Fatalf("create client: %v", errCreate)
	}
	return client
}

func mustRewardRow(t *testing.T, svc *portal.Service, points int64) *models.RewardDefinition {
	t.Helper()
	def, errCreate := svc.CreateReward(context.Background(), portal.RewardInput{
		Name:       fmt.Sprintf("reward-%d", points),
		PointValue: points,
	})
	if errCreate != nil {
		t.Fatalf("create reward: %v", errCreate)
	}
	return def
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, errMarshal := json.Marshal(body)
		if errMarshal != nil {
			t.Fatalf("marshal body: %v", errMarshal)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func balanceOfClient(t *testing.T, conn *gorm.DB, id string) int64 {
	t.Helper()
	var client models.Client
	if errFind := conn.First(&client, "id = ?", id).Error; errFind != nil {
		t.Fatalf("load client: %v", errFind)
	}
	return client.PointBalance
}
