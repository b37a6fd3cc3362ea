package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	dbutil "github.com/petgasmx/petgas-portal/internal/db"
	"github.com/petgasmx/petgas-portal/internal/models"
	"github.com/petgasmx/petgas-portal/internal/security"
)

// AdminHandler manages admin account endpoints.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// formatAdmin renders an admin account for API responses.
func formatAdmin(admin models.Admin) gin.H {
	var perms []string
	if errUnmarshal := json.Unmarshal(admin.Permissions, &perms); errUnmarshal != nil {
		perms = nil
	}
	return gin.H{
		"id":           admin.ID,
		"username":     admin.Username,
		"active":       admin.Active,
		"permissions":  perms,
		"totp_enabled": strings.TrimSpace(admin.TOTPSecret) != "",
		"created_at":   admin.CreatedAt,
		"updated_at":   admin.UpdatedAt,
	}
}

// createAdminRequest defines the request body for admin creation.
type createAdminRequest struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	Permissions []string `json:"permissions"`
}

// Create creates a new admin account.
func (h *AdminHandler) Create(c *gin.Context) {
	var body createAdminRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	username := strings.TrimSpace(body.Username)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing username"})
		return
	}
	password := strings.TrimSpace(body.Password)
	if password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing password"})
		return
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}

	perms := body.Permissions
	if perms == nil {
		perms = []string{}
	}
	permissionsJSON, errMarshal := json.Marshal(perms)
	if errMarshal != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "marshal permissions failed"})
		return
	}

	now := time.Now().UTC()
	admin := models.Admin{
		Username:    username,
		Password:    hash,
		Active:      true,
		Permissions: datatypes.JSON(permissionsJSON),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&admin).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create admin failed"})
		return
	}
	c.JSON(http.StatusCreated, formatAdmin(admin))
}

// List returns all admin accounts with an optional username filter.
func (h *AdminHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Admin{})
	if usernameQ := strings.TrimSpace(c.Query("username")); usernameQ != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+usernameQ+"%")
		q = q.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "username"), pattern)
	}

	var rows []models.Admin
	if errFind := q.Order("created_at DESC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list admins failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, formatAdmin(row))
	}
	c.JSON(http.StatusOK, gin.H{"admins": out})
}

// Get returns a single admin account by ID.
func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).First(&admin, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, formatAdmin(admin))
}

// updateAdminRequest defines the request body for admin updates.
type updateAdminRequest struct {
	Username    *string   `json:"username"`
	Password    *string   `json:"password"`
	Active      *bool     `json:"active"`
	Permissions *[]string `json:"permissions"`
}

// Update modifies admin account fields.
func (h *AdminHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body updateAdminRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if body.Username != nil {
		username := strings.TrimSpace(*body.Username)
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username cannot be empty"})
			return
		}
		updates["username"] = username
	}
	if body.Password != nil {
		password := strings.TrimSpace(*body.Password)
		if password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password cannot be empty"})
			return
		}
		hash, errHash := security.HashPassword(password)
		if errHash != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
			return
		}
		updates["password"] = hash
	}
	if body.Active != nil {
		updates["active"] = *body.Active
	}
	if body.Permissions != nil {
		permissionsJSON, errMarshal := json.Marshal(*body.Permissions)
		if errMarshal != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "marshal permissions failed"})
			return
		}
		updates["permissions"] = datatypes.JSON(permissionsJSON)
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Admin{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes an admin account.
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	res := h.db.WithContext(c.Request.Context()).Delete(&models.Admin{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
