// Package server assembles the HTTP API from the file services.
package server

import (
	"net/http"

	"filemeta/internal/config"
	"filemeta/internal/events"
	"filemeta/internal/middleware"
	"filemeta/internal/modules/access"
	"filemeta/internal/modules/admin"
	"filemeta/internal/modules/files"
	jwtsvc "filemeta/internal/pkg/jwt"
	"filemeta/internal/pkg/storagekey"
	"filemeta/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps are the collaborators shared by the router and its tests.
type Deps struct {
	Gateway *access.Gateway
	Files   *files.Service
	Admin   *admin.Service
	Hub     *events.Hub
	JWT     *jwtsvc.Service
}

// NewDeps wires repositories and services on top of db.
func NewDeps(db *gorm.DB, cfg *config.Config) *Deps {
	userRepo := repository.NewUserRepository(db)
	fileRepo := repository.NewFileRepository(db)

	gateway := access.NewGateway(access.NewCachedLookup(userRepo, cfg.UserCacheSize, cfg.UserCacheTTL))
	hub := events.NewHub()
	fileService := files.NewService(fileRepo, gateway, storagekey.New(), hub)

	return &Deps{
		Gateway: gateway,
		Files:   fileService,
		Admin:   admin.NewService(fileService, fileRepo, gateway),
		Hub:     hub,
		JWT:     jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL),
	}
}

func NewRouter(cfg *config.Config, d *Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	events.NewHandler(d.Hub, d.JWT, d.Gateway).RegisterRoutes(r)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(d.JWT), middleware.ResolveActor(d.Gateway))
	{
		files.NewHandler(d.Files).RegisterRoutes(v1)
		admin.NewHandler(d.Admin, d.Gateway).RegisterRoutes(v1.Group("/admin"))
	}

	return r
}
