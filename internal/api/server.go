// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"marketlens/internal/catalog"
	"marketlens/internal/collector"
	"marketlens/internal/metrics"
	"marketlens/internal/overview"
)

const apiBasePath = "/api"

// Server routes HTTP requests to the analysis components.
type Server struct {
	router    *gin.Engine
	collector *collector.Collector
	overview  *overview.Builder
	catalog   catalog.Catalog
	hub       *Hub
	metrics   *metrics.Metrics
	log       logrus.FieldLogger
}

// NewServer builds the router. hub may be nil, which disables /ws/overview.
func NewServer(col *collector.Collector, ov *overview.Builder, cat catalog.Catalog, hub *Hub, m *metrics.Metrics, log logrus.FieldLogger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(log), observe(m))

	s := &Server{
		router:    router,
		collector: col,
		overview:  ov,
		catalog:   cat,
		hub:       hub,
		metrics:   m,
		log:       log,
	}
	s.registerRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	if s.hub != nil {
		s.router.GET("/ws/overview", gin.WrapF(s.hub.ServeWS))
	}

	api := s.router.Group(apiBasePath)
	{
		api.GET("/indicators/:symbol", s.getIndicators)
		api.GET("/signals/:symbol", s.getSignals)
		api.GET("/market-overview", s.getMarketOverview)
		api.GET("/pattern-recognition/:symbol", s.getPatterns)

		api.GET("/symbols", s.getSymbols)
		api.GET("/data/:symbol", s.getMarketData)
		api.GET("/quote/:symbol", s.getQuote)
		api.GET("/watchlist", s.getWatchlist)
		api.GET("/search", s.searchSymbols)
	}
}
