package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quickride/internal/catalog"
	"quickride/internal/domain"
	"quickride/internal/logging"
	"quickride/internal/service"
)

// AdminHandler handles operational endpoints.
type AdminHandler struct {
	catalog       *catalog.Catalog
	csvPath       string
	tripService   *service.TripService
	driverService *service.DriverService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(cat *catalog.Catalog, csvPath string, tripService *service.TripService, driverService *service.DriverService) *AdminHandler {
	return &AdminHandler{
		catalog:       cat,
		csvPath:       csvPath,
		tripService:   tripService,
		driverService: driverService,
	}
}

// ReloadCSV handles POST /admin/reload-csv. The catalog is swapped in one
// atomic replace; a failed load leaves it empty rather than half-loaded.
func (h *AdminHandler) ReloadCSV(c *gin.Context) {
	locations, err := catalog.LoadFile(h.csvPath)
	if err != nil {
		logging.L().Error("location reload failed", zap.String("path", h.csvPath), zap.Error(err))
		h.catalog.Replace(nil)
		c.JSON(http.StatusOK, gin.H{"ok": false, "locations": 0})
		return
	}

	h.catalog.Replace(locations)
	logging.L().Info("locations reloaded", zap.Int("count", len(locations)))
	c.JSON(http.StatusOK, gin.H{"ok": true, "locations": len(locations)})
}

// Trips handles GET /admin/trips, every trip in creation order.
func (h *AdminHandler) Trips(c *gin.Context) {
	trips, err := h.tripService.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if trips == nil {
		trips = []*domain.Trip{}
	}
	c.JSON(http.StatusOK, trips)
}

// Drivers handles GET /admin/drivers, every driver in registration order.
func (h *AdminHandler) Drivers(c *gin.Context) {
	drivers, err := h.driverService.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if drivers == nil {
		drivers = []*domain.Driver{}
	}
	c.JSON(http.StatusOK, drivers)
}

// Root handles GET /, the liveness text.
func (h *AdminHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "QuickRide USSD backend running")
}
