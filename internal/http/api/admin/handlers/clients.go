package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petgasmx/petgas-portal/internal/portal"
)

// ClientsHandler handles client management endpoints for the admin panel.
type ClientsHandler struct {
	svc *portal.Service
}

// NewClientsHandler constructs a ClientsHandler.
func NewClientsHandler(svc *portal.Service) *ClientsHandler {
	return &ClientsHandler{svc: svc}
}

// List returns client profiles, optionally filtered by a search term.
func (h *ClientsHandler) List(c *gin.Context) {
	offset, limit := pageFromQuery(c)
	clients, total, errList := h.svc.ListClients(c.Request.Context(), c.Query("search"), portal.Page{Offset: offset, Limit: limit})
	if errList != nil {
		respondServiceError(c, errList)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "clients": clients})
}

// Get returns a single client profile.
func (h *ClientsHandler) Get(c *gin.Context) {
	client, errGet := h.svc.GetProfile(c.Request.Context(), c.Param("id"))
	if errGet != nil {
		respondServiceError(c, errGet)
		return
	}
	c.JSON(http.StatusOK, client)
}

// updateClientRequest defines the request body for admin client updates.
type updateClientRequest struct {
	DisplayName            *string `json:"display_name"`
	WalletAddress          *string `json:"wallet_address"`
	SecondaryWalletAddress *string `json:"secondary_wallet_address"`
}

// Update applies a partial update to a client profile.
func (h *ClientsHandler) Update(c *gin.Context) {
	var body updateClientRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	client, errUpdate := h.svc.AdminUpdateClient(c.Request.Context(), c.Param("id"), portal.AdminClientUpdate{
		DisplayName:            body.DisplayName,
		WalletAddress:          body.WalletAddress,
		SecondaryWalletAddress: body.SecondaryWalletAddress,
	})
	if errUpdate != nil {
		respondServiceError(c, errUpdate)
		return
	}
	c.JSON(http.StatusOK, client)
}

// Delete removes a client and every record it owns.
func (h *ClientsHandler) Delete(c *gin.Context) {
	if errDelete := h.svc.DeleteClient(c.Request.Context(), c.Param("id")); errDelete != nil {
		respondServiceError(c, errDelete)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
