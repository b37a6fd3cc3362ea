package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petgasmx/petgas-portal/internal/portal"
)

// LedgerHandler handles reward assignment and revocation per client.
type LedgerHandler struct {
	svc *portal.Service
}

// NewLedgerHandler constructs a LedgerHandler.
func NewLedgerHandler(svc *portal.Service) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

// List returns a client's reward ledger.
func (h *LedgerHandler) List(c *gin.Context) {
	ledger, errList := h.svc.ListClientLedger(c.Request.Context(), c.Param("id"))
	if errList != nil {
		respondServiceError(c, errList)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rewards": ledger})
}

// assignRequest defines the request body for assigning a reward.
type assignRequest struct {
	RewardID uint64 `json:"reward_id"`
	Note     string `json:"note"`
}

// Assign grants a reward to a client and credits its point value.
func (h *LedgerHandler) Assign(c *gin.Context) {
	var body assignRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	entry, errAssign := h.svc.AssignReward(c.Request.Context(), c.Param("id"), body.RewardID, body.Note)
	if errAssign != nil {
		respondServiceError(c, errAssign)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Revoke removes a ledger entry and debits the points it granted.
func (h *LedgerHandler) Revoke(c *gin.Context) {
	ledgerID, ok := uintParam(c, "ledgerId")
	if !ok {
		return
	}
	if errRevoke := h.svc.RevokeReward(c.Request.Context(), c.Param("id"), ledgerID); errRevoke != nil {
		respondServiceError(c, errRevoke)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
