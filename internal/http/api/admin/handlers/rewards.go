package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petgasmx/petgas-portal/internal/portal"
)

// RewardsHandler handles reward catalog management.
type RewardsHandler struct {
	svc *portal.Service
}

// NewRewardsHandler constructs a RewardsHandler.
func NewRewardsHandler(svc *portal.Service) *RewardsHandler {
	return &RewardsHandler{svc: svc}
}

// rewardRequest defines the request body for creating and updating rewards.
type rewardRequest struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	PointValue           int64    `json:"point_value"`
	MinMitigationKg      *float64 `json:"min_mitigation_kg"`
	MinConsumptionLiters *float64 `json:"min_consumption_liters"`
}

// toInput converts the request body into a service input.
func (r rewardRequest) toInput() portal.RewardInput {
	return portal.RewardInput{
		Name:                 r.Name,
		Description:          r.Description,
		PointValue:           r.PointValue,
		MinMitigationKg:      r.MinMitigationKg,
		MinConsumptionLiters: r.MinConsumptionLiters,
	}
}

// List returns the full reward catalog.
func (h *RewardsHandler) List(c *gin.Context) {
	rewards, errList := h.svc.ListRewards(c.Request.Context())
	if errList != nil {
		respondServiceError(c, errList)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}

// Get returns one reward definition.
func (h *RewardsHandler) Get(c *gin.Context) {
	rewardID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	reward, errGet := h.svc.GetReward(c.Request.Context(), rewardID)
	if errGet != nil {
		respondServiceError(c, errGet)
		return
	}
	c.JSON(http.StatusOK, reward)
}

// Create adds a reward definition.
func (h *RewardsHandler) Create(c *gin.Context) {
	var body rewardRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	reward, errCreate := h.svc.CreateReward(c.Request.Context(), body.toInput())
	if errCreate != nil {
		respondServiceError(c, errCreate)
		return
	}
	c.JSON(http.StatusCreated, reward)
}

// Update replaces a reward definition's fields.
func (h *RewardsHandler) Update(c *gin.Context) {
	rewardID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body rewardRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	reward, errUpdate := h.svc.UpdateReward(c.Request.Context(), rewardID, body.toInput())
	if errUpdate != nil {
		respondServiceError(c, errUpdate)
		return
	}
	c.JSON(http.StatusOK, reward)
}

// Delete removes a reward definition. Definitions referenced by ledger
// entries are refused.
func (h *RewardsHandler) Delete(c *gin.Context) {
	rewardID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if errDelete := h.svc.DeleteReward(c.Request.Context(), rewardID); errDelete != nil {
		respondServiceError(c, errDelete)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
