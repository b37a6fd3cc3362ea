// Package app wires configuration, storage, database and HTTP routes into
// a runnable portal server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/petgasmx/petgas-portal/internal/config"
	"github.com/petgasmx/petgas-portal/internal/db"
	adminapi "github.com/petgasmx/petgas-portal/internal/http/api/admin"
	portalapi "github.com/petgasmx/petgas-portal/internal/http/api/portal"
	"github.com/petgasmx/petgas-portal/internal/maglink"
	"github.com/petgasmx/petgas-portal/internal/portal"
	"github.com/petgasmx/petgas-portal/internal/security"
	"github.com/petgasmx/petgas-portal/internal/settings"
	"github.com/petgasmx/petgas-portal/internal/storage"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// SetupLogging configures logrus output; a non-empty logFile adds a
// rotated file sink next to stdout.
func SetupLogging(logFile string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if strings.TrimSpace(logFile) == "" {
		return
	}
	rotated := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotated))
}

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return errLoad
	}
	conn, errOpen := db.Open(cfg.DatabaseDSN)
	if errOpen != nil {
		return errOpen
	}
	return db.Migrate(conn)
}

// RunServer boots the portal with database-backed components and serves
// until the context is cancelled.
func RunServer(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return errLoad
	}
	SetupLogging(cfg.LogFile)

	conn, errOpen := db.Open(cfg.DatabaseDSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	if errSeed := seedAdmin(conn, cfg); errSeed != nil {
		return errSeed
	}
	if errSettings := settings.Refresh(ctx, conn); errSettings != nil {
		return errSettings
	}

	store, errStore := buildObjectStore(ctx, cfg)
	if errStore != nil {
		return errStore
	}
	links, errLinks := buildLinkStore(ctx, cfg)
	if errLinks != nil {
		return errLinks
	}

	svc := portal.NewService(conn, store)

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(), corsMiddleware())
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	portalapi.RegisterPortalRoutes(engine, conn, svc, links, cfg.ClientJWT)
	adminapi.RegisterAdminRoutes(engine, conn, svc, cfg.AdminJWT)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.ListenAddr)
		if errServe := server.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			errCh <- errServe
			return
		}
		errCh <- nil
	}()

	select {
	case errServe := <-errCh:
		return errServe
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
		return errShutdown
	}
	return <-errCh
}

// seedAdmin creates the initial admin account when configured and the
// admin table is empty.
func seedAdmin(conn *gorm.DB, cfg config.Config) error {
	username := strings.TrimSpace(cfg.SeedAdminUsername)
	password := strings.TrimSpace(cfg.SeedAdminPassword)
	if username == "" || password == "" {
		return nil
	}
	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return fmt.Errorf("app: hash seed admin password: %w", errHash)
	}
	return db.SeedAdmin(conn, username, hash)
}

// buildObjectStore selects S3-compatible storage when a bucket is
// configured, falling back to the in-memory store for local runs.
func buildObjectStore(ctx context.Context, cfg config.Config) (storage.ObjectStore, error) {
	if strings.TrimSpace(cfg.Storage.Bucket) == "" {
		log.Warn("no storage bucket configured, evidence objects are held in memory")
		return storage.NewMemoryStore("memory://evidence"), nil
	}
	return storage.NewS3Store(ctx, storage.S3Config{
		Endpoint:      cfg.Storage.Endpoint,
		Region:        cfg.Storage.Region,
		Bucket:        cfg.Storage.Bucket,
		AccessKeyID:   cfg.Storage.AccessKeyID,
		SecretKey:     cfg.Storage.SecretKey,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
}

// buildLinkStore selects redis-backed login links when an address is
// configured, otherwise a process-local store.
func buildLinkStore(ctx context.Context, cfg config.Config) (maglink.LinkStore, error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return maglink.NewMemoryStore(cfg.LoginLinkTTL), nil
	}
	return maglink.NewRedisStore(ctx, cfg.RedisAddr, cfg.LoginLinkTTL)
}

// requestLogger logs each request with method, path, status and latency.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}

// corsMiddleware allows cross-origin calls from the portal and admin UIs.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
