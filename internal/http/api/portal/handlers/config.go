package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petgasmx/petgas-portal/internal/settings"
)

// GetPublicConfig returns public configuration for the portal UI.
func GetPublicConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"portal_name":         settings.String(settings.PortalNameKey, settings.DefaultPortalName),
		"announcement":        settings.String(settings.AnnouncementKey, ""),
		"max_evidence_images": settings.Int(settings.MaxEvidenceImagesKey, settings.DefaultMaxEvidenceImages),
	})
}
