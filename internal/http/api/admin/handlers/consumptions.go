package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petgasmx/petgas-portal/internal/portal"
)

// ConsumptionsHandler handles consumption corrections for the admin panel.
type ConsumptionsHandler struct {
	svc *portal.Service
}

// NewConsumptionsHandler constructs a ConsumptionsHandler.
func NewConsumptionsHandler(svc *portal.Service) *ConsumptionsHandler {
	return &ConsumptionsHandler{svc: svc}
}

// List returns a client's consumption entries.
func (h *ConsumptionsHandler) List(c *gin.Context) {
	offset, limit := pageFromQuery(c)
	entries, total, errList := h.svc.ListClientConsumptions(c.Request.Context(), c.Param("id"), portal.Page{Offset: offset, Limit: limit})
	if errList != nil {
		respondServiceError(c, errList)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "entries": entries})
}

// updateConsumptionRequest defines the request body for corrections.
type updateConsumptionRequest struct {
	AmountLiters float64 `json:"amount_liters"`
	TransactedAt *string `json:"transacted_at"`
}

// Update corrects a consumption entry's amount or transaction time.
func (h *ConsumptionsHandler) Update(c *gin.Context) {
	entryID, ok := uintParam(c, "entryId")
	if !ok {
		return
	}
	var body updateConsumptionRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	entry, errUpdate := h.svc.UpdateConsumption(c.Request.Context(), entryID, body.AmountLiters, body.TransactedAt)
	if errUpdate != nil {
		respondServiceError(c, errUpdate)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Delete removes a consumption entry.
func (h *ConsumptionsHandler) Delete(c *gin.Context) {
	entryID, ok := uintParam(c, "entryId")
	if !ok {
		return
	}
	if errDelete := h.svc.DeleteConsumption(c.Request.Context(), entryID); errDelete != nil {
		respondServiceError(c, errDelete)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
