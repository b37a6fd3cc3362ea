package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/petgasmx/petgas-portal/internal/config"
	"github.com/petgasmx/petgas-portal/internal/maglink"
	"github.com/petgasmx/petgas-portal/internal/portal"
	"github.com/petgasmx/petgas-portal/internal/security"
)

// AuthHandler handles the passwordless client login flow.
type AuthHandler struct {
	svc    *portal.Service
	links  maglink.LinkStore
	jwtCfg config.JWTConfig
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *portal.Service, links maglink.LinkStore, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{svc: svc, links: links, jwtCfg: jwtCfg}
}

// requestLoginRequest defines the request body for a login link.
type requestLoginRequest struct {
	Email string `json:"email"`
}

// RequestLogin mints a one-time login token for an email address. Delivering
// the link by mail is an external concern; the token is returned directly.
func (h *AuthHandler) RequestLogin(c *gin.Context) {
	var body requestLoginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	email := strings.TrimSpace(body.Email)
	if email == "" || !strings.Contains(email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid email is required"})
		return
	}

	token, errIssue := h.links.Issue(c.Request.Context(), email)
	if errIssue != nil {
		respondServiceError(c, errIssue)
		return
	}
	c.JSON(http.StatusOK, gin.H{"login_token": token})
}

// verifyLoginRequest defines the request body for token verification.
type verifyLoginRequest struct {
	Token string `json:"token"`
}

// VerifyLogin consumes a one-time token, creates the profile on first login
// and issues a session JWT.
func (h *AuthHandler) VerifyLogin(c *gin.Context) {
	var body verifyLoginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	email, errConsume := h.links.Consume(c.Request.Context(), body.Token)
	if errConsume != nil {
		// Expired or replayed tokens read as unauthorized, not as a lookup miss.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired login token"})
		return
	}

	client, errProfile := h.svc.GetOrCreateProfile(c.Request.Context(), email)
	if errProfile != nil {
		respondServiceError(c, errProfile)
		return
	}

	token, errToken := security.GenerateClientToken(h.jwtCfg.Secret, client.ID, client.Email, h.jwtCfg.Expiry)
	if errToken != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "issue session token failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"profile": gin.H{
			"id":            client.ID,
			"email":         client.Email,
			"display_name":  client.DisplayName,
			"point_balance": client.PointBalance,
		},
	})
}
