package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/pawpulse/internal/domain/environment"
	"github.com/yanqian/pawpulse/internal/domain/linkcheck"
	"github.com/yanqian/pawpulse/internal/domain/petevents"
	"github.com/yanqian/pawpulse/internal/domain/petservices"
	"github.com/yanqian/pawpulse/pkg/util"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	linkSvc     linkcheck.Service
	envSvc      environment.Service
	servicesSvc petservices.Service
	eventsSvc   petevents.Service
	logger      *slog.Logger
	now         func() time.Time
}

// NewHandler constructs the root HTTP handler.
func NewHandler(linkSvc linkcheck.Service, envSvc environment.Service, servicesSvc petservices.Service, eventsSvc petevents.Service, logger *slog.Logger) *Handler {
	return &Handler{
		linkSvc:     linkSvc,
		envSvc:      envSvc,
		servicesSvc: servicesSvc,
		eventsSvc:   eventsSvc,
		logger:      logger.With("component", "http.handler"),
		now:         util.NowUTC,
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ValidateLinks filters candidate URLs down to the ones safe to show.
func (h *Handler) ValidateLinks(c *gin.Context) {
	var req linkcheck.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "request body must be JSON with category and urls", err))
		return
	}

	resp, err := h.linkSvc.ValidateLinks(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AirQuality serves the safety radar. Failures degrade to a fallback payload.
func (h *Handler) AirQuality(c *gin.Context) {
	city := c.Query("city")
	radar, err := h.envSvc.SafetyRadar(c.Request.Context(), city)
	if err != nil {
		h.logger.Warn("safety radar fallback", "city", city, "error", err)
		radar = environment.FallbackRadar(city, h.now())
	}
	c.JSON(http.StatusOK, radar)
}

// DailyBrief serves the daily pet-care brief with the same fallback policy.
func (h *Handler) DailyBrief(c *gin.Context) {
	city := c.Query("city")
	brief, err := h.envSvc.DailyBrief(c.Request.Context(), city)
	if err != nil {
		h.logger.Warn("daily brief fallback", "city", city, "error", err)
		brief = environment.FallbackBrief(city, h.now())
	}
	c.JSON(http.StatusOK, brief)
}

// NearbyServices lists pet services near a city plus map search links.
func (h *Handler) NearbyServices(c *gin.Context) {
	city := c.Query("city")
	services, err := h.servicesSvc.Resolve(c.Request.Context(), city)
	if err != nil {
		h.logger.Warn("nearby services unavailable", "city", city, "error", err)
		services = []petservices.Listing{}
	}
	c.JSON(http.StatusOK, petservices.Response{
		City:        city,
		Services:    services,
		SearchLinks: h.servicesSvc.SearchLinks(city),
	})
}

// PetEvents lists validated pet events for a city.
func (h *Handler) PetEvents(c *gin.Context) {
	city := c.Query("city")
	events, err := h.eventsSvc.Discover(c.Request.Context(), city)
	if err != nil {
		h.logger.Warn("pet events unavailable", "city", city, "error", err)
		events = []petevents.Event{}
	}
	c.JSON(http.StatusOK, petevents.Response{City: city, Events: events})
}
