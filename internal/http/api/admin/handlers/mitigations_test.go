package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/petgasmx/petgas-portal/internal/models"
	"github.com/petgasmx/petgas-portal/internal/portal"
)

func setupMitigationRouter(t *testing.T) (*gin.Engine, *portal.Service, *models.MitigationEntry) {
	t.Helper()
	conn, svc := setupHandlerDB(t)

	client := mustClientRow(t, conn, "client-review", "review@example.com")
	entry, errSubmit := svc.SubmitMitigation(context.Background(), client.ID, 7.5, nil)
	if errSubmit != nil {
		t.Fatalf("submit mitigation: %v", errSubmit)
	}

	handler := NewMitigationsHandler(svc)
	router := gin.New()
	router.Use(withAdminID(3))
	router.GET("/mitigations", handler.List)
	router.GET("/mitigations/:id", handler.Get)
	router.PUT("/mitigations/:id/amount", handler.UpdateAmount)
	router.POST("/mitigations/:id/status", handler.Transition)
	router.GET("/mitigations/:id/events", handler.ReviewEvents)
	return router, svc, entry
}

func TestTransitionApprovesPendingEntry(t *testing.T) {
	router, _, entry := setupMitigationRouter(t)

	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/mitigations/%d/status", entry.ID), map[string]string{"status": "approved"})
	if w.Code != http.StatusOK {
		t.Fatalf("approve status = %d, body %s", w.Code, w.Body.String())
	}
	var updated struct {
		Status string `json:"Status"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &updated); errDecode != nil {
		t.Fatalf("decode: %v", errDecode)
	}
	if updated.Status != models.StatusApproved {
		t.Fatalf("status = %q, want approved", updated.Status)
	}
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	router, _, entry := setupMitigationRouter(t)

	path := fmt.Sprintf("/mitigations/%d/status", entry.ID)
	if w := doJSON(t, router, http.MethodPost, path, map[string]string{"status": "approved"}); w.Code != http.StatusOK {
		t.Fatalf("approve status = %d", w.Code)
	}

	// approved entries must be reopened before they can be rejected
	if w := doJSON(t, router, http.MethodPost, path, map[string]string{"status": "rejected"}); w.Code != http.StatusConflict {
		t.Fatalf("approved->rejected status = %d, want 409", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, path, map[string]string{"status": "archived"}); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown status = %d, want 400", w.Code)
	}
}

func TestTransitionRecordsReviewEvents(t *testing.T) {
	router, _, entry := setupMitigationRouter(t)

	path := fmt.Sprintf("/mitigations/%d/status", entry.ID)
	if w := doJSON(t, router, http.MethodPost, path, map[string]string{"status": "approved"}); w.Code != http.StatusOK {
		t.Fatalf("approve status = %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, path, map[string]string{"status": "pending"}); w.Code != http.StatusOK {
		t.Fatalf("reopen status = %d", w.Code)
	}

	w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/mitigations/%d/events", entry.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("events status = %d", w.Code)
	}
	var listed struct {
		Events []struct {
			AdminID    uint64 `json:"AdminID"`
			FromStatus string `json:"FromStatus"`
			ToStatus   string `json:"ToStatus"`
		} `json:"events"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &listed); errDecode != nil {
		t.Fatalf("decode events: %v", errDecode)
	}
	if len(listed.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(listed.Events))
	}
	for _, event := range listed.Events {
		if event.AdminID != 3 {
			t.Fatalf("event admin id = %d, want 3", event.AdminID)
		}
	}
}

func TestUpdateAmountValidates(t *testing.T) {
	router, _, entry := setupMitigationRouter(t)

	path := fmt.Sprintf("/mitigations/%d/amount", entry.ID)
	if w := doJSON(t, router, http.MethodPut, path, map[string]any{"amount_kg": 11.25}); w.Code != http.StatusOK {
		t.Fatalf("update amount status = %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodPut, path, map[string]any{"amount_kg": 0}); w.Code != http.StatusBadRequest {
		t.Fatalf("zero amount status = %d, want 400", w.Code)
	}

	w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/mitigations/%d", entry.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got struct {
		AmountKg float64 `json:"AmountKg"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &got); errDecode != nil {
		t.Fatalf("decode entry: %v", errDecode)
	}
	if got.AmountKg != 11.25 {
		t.Fatalf("amount = %v, want 11.25", got.AmountKg)
	}
}
