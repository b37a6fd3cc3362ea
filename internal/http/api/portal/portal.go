package portal

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petgasmx/petgas-portal/internal/config"
	"github.com/petgasmx/petgas-portal/internal/http/api/portal/handlers"
	"github.com/petgasmx/petgas-portal/internal/maglink"
	"github.com/petgasmx/petgas-portal/internal/models"
	portalsvc "github.com/petgasmx/petgas-portal/internal/portal"
	"github.com/petgasmx/petgas-portal/internal/security"
)

// RegisterPortalRoutes registers the client-facing portal routes.
func RegisterPortalRoutes(r *gin.Engine, db *gorm.DB, svc *portalsvc.Service, links maglink.LinkStore, jwtCfg config.JWTConfig) {
	if r == nil || db == nil || svc == nil {
		return
	}

	portal := r.Group("/v0/portal")

	authHandler := handlers.NewAuthHandler(svc, links, jwtCfg)
	portal.POST("/login/request", authHandler.RequestLogin)
	portal.POST("/login/verify", authHandler.VerifyLogin)
	portal.GET("/config", handlers.GetPublicConfig)

	authed := portal.Group("")
	authed.Use(clientAuthMiddleware(db, jwtCfg))

	profileHandler := handlers.NewProfileHandler(svc)
	authed.GET("/profile", profileHandler.Get)
	authed.PUT("/profile", profileHandler.Update)

	activityHandler := handlers.NewActivityHandler(svc)
	authed.POST("/mitigations", activityHandler.SubmitMitigation)
	authed.GET("/mitigations", activityHandler.ListMitigations)
	authed.POST("/consumptions", activityHandler.SubmitConsumption)
	authed.GET("/consumptions", activityHandler.ListConsumptions)

	rewardsHandler := handlers.NewRewardsHandler(svc)
	authed.GET("/rewards", rewardsHandler.ListLedger)
	authed.GET("/summary", rewardsHandler.Summary)
}

// clientAuthMiddleware validates client JWTs and loads the client into context.
func clientAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
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

		claims, errJWT := security.ParseClientToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var client models.Client
		if errFind := db.WithContext(c.Request.Context()).First(&client, "id = ?", claims.Subject).Error; errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "client not found"})
			return
		}

		c.Set("clientID", client.ID)
		c.Next()
	}
}
