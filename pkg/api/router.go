// Package api serves the HTTP configuration and control surface.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/dkeene/pihome/pkg/api/handlers"
	"github.com/dkeene/pihome/pkg/db"
	"github.com/dkeene/pihome/pkg/remote"
	"github.com/dkeene/pihome/pkg/remote/schema"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine    *gin.Engine
	registry  *remote.Registry
	store     db.RemoteStore
	validator *schema.Validator
	backend   string
}

// NewRouter creates a new API router. backend names the active gpio
// driver and is only reported through the health endpoint.
func NewRouter(registry *remote.Registry, store db.RemoteStore, validator *schema.Validator, backend string) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:    engine,
		registry:  registry,
		store:     store,
		validator: validator,
		backend:   backend,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Health check at root
	healthHandler := handlers.NewHealthHandler(r.registry, r.backend)
	r.engine.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		// Health
		v1.GET("/health", healthHandler.Health)

		// Remotes
		remotesHandler := handlers.NewRemotesHandler(r.registry, r.store, r.validator)
		controlHandler := handlers.NewControlHandler(r.registry, r.store)
		remotes := v1.Group("/remotes")
		{
			remotes.GET("", remotesHandler.ListRemotes)
			remotes.POST("", remotesHandler.CreateRemote)
			remotes.GET("/:pin", remotesHandler.GetRemote)
			remotes.PUT("/:pin", remotesHandler.UpdateRemote)
			remotes.DELETE("/:pin", remotesHandler.DeleteRemote)

			// Shortcut actions
			remotes.POST("/:pin/arm", controlHandler.Arm)
			remotes.POST("/:pin/disarm", controlHandler.Disarm)
			remotes.POST("/:pin/snapshot", controlHandler.Snapshot)
		}
	}
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}

// Engine exposes the underlying Gin engine for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
