package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petgasmx/petgas-portal/internal/config"
	"github.com/petgasmx/petgas-portal/internal/http/api/admin/handlers"
	"github.com/petgasmx/petgas-portal/internal/models"
	portalsvc "github.com/petgasmx/petgas-portal/internal/portal"
	"github.com/petgasmx/petgas-portal/internal/security"
)

// RegisterAdminRoutes registers the admin panel routes.
func RegisterAdminRoutes(r *gin.Engine, db *gorm.DB, svc *portalsvc.Service, jwtCfg config.JWTConfig) {
	if r == nil || db == nil || svc == nil {
		return
	}

	admin := r.Group("/v0/admin")

	authHandler := handlers.NewAuthHandler(db, jwtCfg)
	admin.POST("/login", authHandler.Login)
	admin.POST("/login/totp", authHandler.LoginTOTP)

	authed := admin.Group("")
	authed.Use(adminAuthMiddleware(db, jwtCfg))

	mfaHandler := handlers.NewMFAHandler(db)
	authed.GET("/mfa/status", mfaHandler.Status)
	authed.POST("/mfa/totp/prepare", mfaHandler.PrepareTOTP)
	authed.POST("/mfa/totp/confirm", mfaHandler.ConfirmTOTP)
	authed.POST("/mfa/totp/disable", mfaHandler.DisableTOTP)

	adminsHandler := handlers.NewAdminHandler(db)
	authed.GET("/admins", adminsHandler.List)
	authed.POST("/admins", adminsHandler.Create)
	authed.GET("/admins/:id", adminsHandler.Get)
	authed.PUT("/admins/:id", adminsHandler.Update)
	authed.DELETE("/admins/:id", adminsHandler.Delete)

	clientsHandler := handlers.NewClientsHandler(svc)
	authed.GET("/clients", clientsHandler.List)
	authed.GET("/clients/:id", clientsHandler.Get)
	authed.PUT("/clients/:id", clientsHandler.Update)
	authed.DELETE("/clients/:id", clientsHandler.Delete)

	ledgerHandler := handlers.NewLedgerHandler(svc)
	authed.GET("/clients/:id/rewards", ledgerHandler.List)
	authed.POST("/clients/:id/rewards", ledgerHandler.Assign)
	authed.DELETE("/clients/:id/rewards/:ledgerId", ledgerHandler.Revoke)

	consumptionsHandler := handlers.NewConsumptionsHandler(svc)
	authed.GET("/clients/:id/consumptions", consumptionsHandler.List)
	authed.PUT("/consumptions/:entryId", consumptionsHandler.Update)
	authed.DELETE("/consumptions/:entryId", consumptionsHandler.Delete)

	mitigationsHandler := handlers.NewMitigationsHandler(svc)
	authed.GET("/mitigations", mitigationsHandler.List)
	authed.GET("/mitigations/:id", mitigationsHandler.Get)
	authed.PUT("/mitigations/:id/amount", mitigationsHandler.UpdateAmount)
	authed.POST("/mitigations/:id/status", mitigationsHandler.Transition)
	authed.GET("/mitigations/:id/events", mitigationsHandler.ReviewEvents)
	authed.DELETE("/evidence/:imageId", mitigationsHandler.DeleteEvidence)

	rewardsHandler := handlers.NewRewardsHandler(svc)
	authed.GET("/rewards", rewardsHandler.List)
	authed.POST("/rewards", rewardsHandler.Create)
	authed.GET("/rewards/:id", rewardsHandler.Get)
	authed.PUT("/rewards/:id", rewardsHandler.Update)
	authed.DELETE("/rewards/:id", rewardsHandler.Delete)

	dashboardHandler := handlers.NewDashboardHandler(svc)
	authed.GET("/dashboard", dashboardHandler.Totals)

	settingsHandler := handlers.NewSettingsHandler(db)
	authed.GET("/settings", settingsHandler.List)
	authed.PUT("/settings/:key", settingsHandler.Update)
}

// adminAuthMiddleware validates admin JWTs and loads the admin into context.
func adminAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseAdminToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var admin models.Admin
		if errFind := db.WithContext(c.Request.Context()).First(&admin, claims.AdminID).Error; errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
			return
		}
		if !admin.Active {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin disabled"})
			return
		}

		c.Set("adminID", admin.ID)
		c.Next()
	}
}
