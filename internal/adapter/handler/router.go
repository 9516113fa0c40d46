package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/telmeet/conference-scheduler/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	conferenceHandler *Conference
	catalogHandler    *Catalog
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, conferenceHandler *Conference, catalogHandler *Catalog) *Router {
	return &Router{
		cfg:               cfg,
		conferenceHandler: conferenceHandler,
		catalogHandler:    catalogHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupDraftRoutes(v1)
	rt.setupConferenceRoutes(v1)
	rt.setupCatalogRoutes(v1)
}

// setupDraftRoutes configures draft lifecycle routes
func (rt *Router) setupDraftRoutes(g *echo.Group) {
	drafts := g.Group("/drafts")

	drafts.POST("", rt.conferenceHandler.CreateDraft)
	drafts.GET("", rt.conferenceHandler.ListDrafts)
	drafts.GET("/:id", rt.conferenceHandler.GetDraft)
	drafts.PATCH("/:id", rt.conferenceHandler.UpdateDraft)
	drafts.DELETE("/:id", rt.conferenceHandler.DeleteDraft)
	drafts.POST("/:id/participants", rt.conferenceHandler.AddParticipant)
	drafts.DELETE("/:id/participants/:address", rt.conferenceHandler.RemoveParticipant)
	drafts.POST("/:id/submit", rt.conferenceHandler.SubmitDraft)
}

// setupConferenceRoutes configures roster routes
func (rt *Router) setupConferenceRoutes(g *echo.Group) {
	g.GET("/conferences", rt.conferenceHandler.ListConferences)
}

// setupCatalogRoutes configures selection catalog routes
func (rt *Router) setupCatalogRoutes(g *echo.Group) {
	g.GET("/catalogs", rt.catalogHandler.GetCatalogs)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
