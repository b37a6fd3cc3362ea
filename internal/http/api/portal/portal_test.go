package portal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/petgasmx/petgas-portal/internal/config"
	dbutil "github.com/petgasmx/petgas-portal/internal/db"
	"github.com/petgasmx/petgas-portal/internal/maglink"
	portalsvc "github.com/petgasmx/petgas-portal/internal/portal"
	"github.com/petgasmx/petgas-portal/internal/storage"
)

func setupPortalRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:portal_routes_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := dbutil.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}

	svc := portalsvc.NewService(conn, storage.NewMemoryStore("memory://test"))
	links := maglink.NewMemoryStore(time.Minute)
	jwtCfg := config.JWTConfig{Secret: "portal-test-secret", Expiry: time.Hour}

	router := gin.New()
	RegisterPortalRoutes(router, conn, svc, links, jwtCfg)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	payload, errMarshal := json.Marshal(body)
	if errMarshal != nil {
		t.Fatalf("marshal body: %v", errMarshal)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getWithToken(t *testing.T, router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loginClient(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	w := postJSON(t, router, "/v0/portal/login/request", map[string]string{"email": email}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("request login status = %d, body %s", w.Code, w.Body.String())
	}
	var requested struct {
		LoginToken string `json:"login_token"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &requested); errDecode != nil {
		t.Fatalf("decode login request response: %v", errDecode)
	}

	w = postJSON(t, router, "/v0/portal/login/verify", map[string]string{"token": requested.LoginToken}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("verify login status = %d, body %s", w.Code, w.Body.String())
	}
	var verified struct {
		Token string `json:"token"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &verified); errDecode != nil {
		t.Fatalf("decode verify response: %v", errDecode)
	}
	if verified.Token == "" {
		t.Fatal("expected a session token")
	}
	return verified.Token
}

func TestLoginFlowIssuesSessionAndProfile(t *testing.T) {
	router := setupPortalRouter(t)

	token := loginClient(t, router, "ana@example.com")

	w := getWithToken(t, router, "/v0/portal/profile", token)
	if w.Code != http.StatusOK {
		t.Fatalf("profile status = %d, body %s", w.Code, w.Body.String())
	}
	var profile struct {
		Email        string `json:"email"`
		PointBalance int64  `json:"point_balance"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &profile); errDecode != nil {
		t.Fatalf("decode profile: %v", errDecode)
	}
	if profile.Email != "ana@example.com" {
		t.Fatalf("profile email = %q", profile.Email)
	}
	if profile.PointBalance != 0 {
		t.Fatalf("new client balance = %d, want 0", profile.PointBalance)
	}
}

func TestLoginTokenIsSingleUse(t *testing.T) {
	router := setupPortalRouter(t)

	w := postJSON(t, router, "/v0/portal/login/request", map[string]string{"email": "bob@example.com"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("request login status = %d", w.Code)
	}
	var requested struct {
		LoginToken string `json:"login_token"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &requested); errDecode != nil {
		t.Fatalf("decode: %v", errDecode)
	}

	first := postJSON(t, router, "/v0/portal/login/verify", map[string]string{"token": requested.LoginToken}, "")
	if first.Code != http.StatusOK {
		t.Fatalf("first verify status = %d", first.Code)
	}
	second := postJSON(t, router, "/v0/portal/login/verify", map[string]string{"token": requested.LoginToken}, "")
	if second.Code != http.StatusUnauthorized {
		t.Fatalf("replayed verify status = %d, want 401", second.Code)
	}
}

func TestAuthedRoutesRejectMissingToken(t *testing.T) {
	router := setupPortalRouter(t)

	w := getWithToken(t, router, "/v0/portal/profile", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", w.Code)
	}

	w = getWithToken(t, router, "/v0/portal/summary", "not-a-jwt")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d, want 401", w.Code)
	}
}

func TestConsumptionSubmitAndList(t *testing.T) {
	router := setupPortalRouter(t)
	token := loginClient(t, router, "carla@example.com")

	w := postJSON(t, router, "/v0/portal/consumptions", map[string]any{"amount_liters": 18.5}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit consumption status = %d, body %s", w.Code, w.Body.String())
	}

	w = postJSON(t, router, "/v0/portal/consumptions", map[string]any{"amount_liters": -3}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("negative liters status = %d, want 400", w.Code)
	}

	w = getWithToken(t, router, "/v0/portal/consumptions", token)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var listed struct {
		Total int64 `json:"total"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &listed); errDecode != nil {
		t.Fatalf("decode list: %v", errDecode)
	}
	if listed.Total != 1 {
		t.Fatalf("total = %d, want 1", listed.Total)
	}
}

func TestPublicConfigServesDefaults(t *testing.T) {
	router := setupPortalRouter(t)

	w := getWithToken(t, router, "/v0/portal/config", "")
	if w.Code != http.StatusOK {
		t.Fatalf("config status = %d", w.Code)
	}
	var cfg struct {
		PortalName        string `json:"portal_name"`
		MaxEvidenceImages int    `json:"max_evidence_images"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &cfg); errDecode != nil {
		t.Fatalf("decode config: %v", errDecode)
	}
	if cfg.PortalName == "" {
		t.Fatal("expected a portal name fallback")
	}
	if cfg.MaxEvidenceImages <= 0 {
		t.Fatalf("max evidence images = %d", cfg.MaxEvidenceImages)
	}
}
