package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/telmeet/conference-scheduler/internal/adapter/presenter"
	"github.com/telmeet/conference-scheduler/internal/usecase/scheduling"
)

// Catalog handles selection catalog HTTP requests
type Catalog struct {
	zones     *scheduling.TimeZoneCatalog
	durations *scheduling.DurationCatalog
	logger    *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(zones *scheduling.TimeZoneCatalog, durations *scheduling.DurationCatalog, logger *zap.Logger) *Catalog {
	return &Catalog{
		zones:     zones,
		durations: durations,
		logger:    logger,
	}
}

// GetCatalogs handles GET /catalogs
// @Summary      Get the timezone and duration selection catalogs
// @Description  Returns the selectable timezones sorted by GMT offset and the fixed duration choices, with their default indexes
// @Tags         Catalogs
// @Produce      json
// @Success      200  {object}  conference.CatalogResponse
// @Router       /catalogs [get]
func (h *Catalog) GetCatalogs(c echo.Context) error {
	return HandleSuccess(h.logger, c, http.StatusOK,
		presenter.ToCatalogResponse(h.zones, h.durations))
}
