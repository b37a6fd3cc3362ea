package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petgasmx/petgas-portal/internal/portal"
)

// RewardsHandler exposes a client's reward ledger and activity summary.
type RewardsHandler struct {
	svc *portal.Service
}

// NewRewardsHandler constructs a RewardsHandler.
func NewRewardsHandler(svc *portal.Service) *RewardsHandler {
	return &RewardsHandler{svc: svc}
}

// ListLedger returns the client's assigned rewards with the current balance.
func (h *RewardsHandler) ListLedger(c *gin.Context) {
	clientID := getClientID(c)
	if clientID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	client, errClient := h.svc.GetProfile(c.Request.Context(), clientID)
	if errClient != nil {
		respondServiceError(c, errClient)
		return
	}
	ledger, errLedger := h.svc.ListClientLedger(c.Request.Context(), clientID)
	if errLedger != nil {
		respondServiceError(c, errLedger)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"point_balance": client.PointBalance,
		"rewards":       ledger,
	})
}

// Summary returns the client's aggregated activity totals.
func (h *RewardsHandler) Summary(c *gin.Context) {
	clientID := getClientID(c)
	if clientID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	summary, errSummary := h.svc.Summary(c.Request.Context(), clientID)
	if errSummary != nil {
		respondServiceError(c, errSummary)
		return
	}
	c.JSON(http.StatusOK, summary)
}
