package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petgasmx/petgas-portal/internal/portal"
)

// MitigationsHandler handles mitigation review endpoints.
type MitigationsHandler struct {
	svc *portal.Service
}

// NewMitigationsHandler constructs a MitigationsHandler.
func NewMitigationsHandler(svc *portal.Service) *MitigationsHandler {
	return &MitigationsHandler{svc: svc}
}

// List returns mitigation entries across clients, filtered by status or
// client id when given.
func (h *MitigationsHandler) List(c *gin.Context) {
	offset, limit := pageFromQuery(c)
	filter := portal.MitigationFilter{
		Status:   c.Query("status"),
		ClientID: c.Query("client_id"),
	}
	entries, total, errList := h.svc.ListMitigations(c.Request.Context(), filter, portal.Page{Offset: offset, Limit: limit})
	if errList != nil {
		respondServiceError(c, errList)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "entries": entries})
}

// Get returns one mitigation entry with its evidence and client.
func (h *MitigationsHandler) Get(c *gin.Context) {
	entryID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	entry, errGet := h.svc.GetMitigation(c.Request.Context(), entryID)
	if errGet != nil {
		respondServiceError(c, errGet)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// updateAmountRequest defines the request body for amount corrections.
type updateAmountRequest struct {
	AmountKg float64 `json:"amount_kg"`
}

// UpdateAmount corrects the reported kilograms on an entry.
func (h *MitigationsHandler) UpdateAmount(c *gin.Context) {
	entryID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body updateAmountRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	entry, errUpdate := h.svc.UpdateMitigationAmount(c.Request.Context(), entryID, body.AmountKg)
	if errUpdate != nil {
		respondServiceError(c, errUpdate)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// transitionRequest defines the request body for a status transition.
type transitionRequest struct {
	Status string `json:"status"`
}

// Transition moves an entry through the review state machine and records
// who made the call.
func (h *MitigationsHandler) Transition(c *gin.Context) {
	adminID, okAdmin := readAdminIDFromContext(c)
	if !okAdmin {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
		return
	}
	entryID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body transitionRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	entry, errTransition := h.svc.TransitionMitigation(c.Request.Context(), adminID, entryID, body.Status)
	if errTransition != nil {
		respondServiceError(c, errTransition)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// ReviewEvents returns the audit trail for an entry.
func (h *MitigationsHandler) ReviewEvents(c *gin.Context) {
	entryID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	events, errList := h.svc.ListReviewEvents(c.Request.Context(), entryID)
	if errList != nil {
		respondServiceError(c, errList)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// DeleteEvidence removes one evidence image and its stored object.
func (h *MitigationsHandler) DeleteEvidence(c *gin.Context) {
	imageID, ok := uintParam(c, "imageId")
	if !ok {
		return
	}
	if errDelete := h.svc.DeleteEvidence(c.Request.Context(), imageID); errDelete != nil {
		respondServiceError(c, errDelete)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
