package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petgasmx/petgas-portal/internal/portal"
)

// DashboardHandler serves portal-wide totals for the admin dashboard.
type DashboardHandler struct {
	svc *portal.Service
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(svc *portal.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Totals returns aggregated counts and sums across the portal.
func (h *DashboardHandler) Totals(c *gin.Context) {
	totals, errTotals := h.svc.Dashboard(c.Request.Context())
	if errTotals != nil {
		respondServiceError(c, errTotals)
		return
	}
	c.JSON(http.StatusOK, totals)
}
