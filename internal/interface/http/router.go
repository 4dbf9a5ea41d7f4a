package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/pawpulse/internal/infra/config"
	"github.com/yanqian/pawpulse/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		handler.logger.Error("invalid trusted proxies, trusting none", "error", err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/health", handler.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api", rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))
	{
		api.GET("/air-quality", handler.AirQuality)
		api.GET("/daily-brief", handler.DailyBrief)
		api.GET("/nearby-services", handler.NearbyServices)
		api.GET("/pet-events", handler.PetEvents)
		api.POST("/validate-links", handler.ValidateLinks)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
