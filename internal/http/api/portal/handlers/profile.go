package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petgasmx/petgas-portal/internal/models"
	"github.com/petgasmx/petgas-portal/internal/portal"
)

// ProfileHandler handles client profile endpoints.
type ProfileHandler struct {
	svc *portal.Service
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(svc *portal.Service) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// formatProfile renders a client for API responses.
func formatProfile(client *models.Client) gin.H {
	return gin.H{
		"id":                       client.ID,
		"email":                    client.Email,
		"display_name":             client.DisplayName,
		"wallet_address":           client.WalletAddress,
		"secondary_wallet_address": client.SecondaryWalletAddress,
		"point_balance":            client.PointBalance,
		"created_at":               client.CreatedAt,
		"updated_at":               client.UpdatedAt,
	}
}

// Get returns the current client's profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	clientID := getClientID(c)
	if clientID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	client, errGet := h.svc.GetProfile(c.Request.Context(), clientID)
	if errGet != nil {
		respondServiceError(c, errGet)
		return
	}
	c.JSON(http.StatusOK, formatProfile(client))
}

// updateProfileRequest defines the request body for profile updates.
type updateProfileRequest struct {
	DisplayName            *string `json:"display_name"`
	WalletAddress          *string `json:"wallet_address"`
	SecondaryWalletAddress *string `json:"secondary_wallet_address"`
}

// Update applies a partial update of the self-service profile fields.
func (h *ProfileHandler) Update(c *gin.Context) {
	clientID := getClientID(c)
	if clientID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body updateProfileRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	client, errUpdate := h.svc.UpdateProfile(c.Request.Context(), clientID, portal.ProfileUpdate{
		DisplayName:            body.DisplayName,
		WalletAddress:          body.WalletAddress,
		SecondaryWalletAddress: body.SecondaryWalletAddress,
	})
	if errUpdate != nil {
		respondServiceError(c, errUpdate)
		return
	}
	c.JSON(http.StatusOK, formatProfile(client))
}
