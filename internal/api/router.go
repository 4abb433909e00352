package api

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ShayestehHS/apidock/internal/authhook"
	"github.com/ShayestehHS/apidock/internal/executor"
	"github.com/ShayestehHS/apidock/internal/filter"
	"github.com/ShayestehHS/apidock/internal/history"
	"github.com/ShayestehHS/apidock/internal/settings"
	"github.com/ShayestehHS/apidock/internal/stats"
)

// Router handles HTTP routing for the portal
type Router struct {
	engine         *gin.Engine
	controller     *filter.Controller
	historyService *history.Service
	handler        *Handler
	log            zerolog.Logger
}

// NewRouter creates a new router
func NewRouter(filterEngine *filter.Engine, controller *filter.Controller, settingsService *settings.Service, authHook authhook.Hook, execService *executor.Executor, historyService *history.Service, statsCollector *stats.Collector, log zerolog.Logger) *Router {
	gin.SetMode(gin.ReleaseMode)

	r := &Router{
		engine:         gin.New(),
		controller:     controller,
		historyService: historyService,
		log:            log,
	}

	r.handler = NewHandler(filterEngine, controller, settingsService, authHook, execService, historyService, statsCollector, log)

	// Setup middleware
	r.engine.Use(gin.Recovery())
	r.engine.Use(corsMiddleware())

	r.setupRoutes()

	return r
}

// setupRoutes configures all routes
func (r *Router) setupRoutes() {
	api := r.engine.Group("/api")
	{
		// Endpoint cards
		api.GET("/cards", r.handler.ListCards)
		api.GET("/cards/:operationId", r.handler.GetCard)
		api.GET("/groups", r.handler.ListGroups)

		// Filtering
		api.GET("/filter", r.handler.FilterFromQuery)
		api.POST("/filter", r.handler.ApplyFilter)
		api.POST("/filter/clear", r.handler.ClearFilter)

		// Permission checklist
		api.GET("/permissions", r.handler.ListPermissions)

		// Try-console settings
		api.GET("/settings", r.handler.GetSettings)
		api.PUT("/settings", r.handler.UpdateSettings)
		api.DELETE("/settings/session", r.handler.ClearSessionSettings)
		api.GET("/settings/auth-default", r.handler.GetAuthDefault)

		// Execution
		api.POST("/execute", r.handler.Execute)

		// History
		api.GET("/history", r.handler.ListHistory)
		api.GET("/history/:id", r.handler.GetHistoryRecord)
		api.DELETE("/history", r.handler.ClearHistory)

		// Statistics
		api.GET("/stats", r.handler.GetStats)
		api.GET("/stats/operations/:operationId", r.handler.GetOperationStats)
		api.POST("/stats/reset", r.handler.ResetStats)

		// Health
		api.GET("/health", r.handler.HealthCheck)
	}

	// WebSocket streams
	filterWS := filter.NewWebSocketHandler(r.controller, r.log)
	r.engine.GET("/api/filter/stream", gin.WrapH(filterWS))

	historyWS := history.NewWebSocketHandler(r.historyService, r.log)
	r.engine.GET("/api/history/stream", gin.WrapH(historyWS))
}

// ServeMergedSchema exposes the merged OpenAPI document
func (r *Router) ServeMergedSchema(schema []byte) {
	r.engine.GET("/api/schema", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", schema)
	})
}

// ServeDocsFromFS serves the generated documentation payloads
func (r *Router) ServeDocsFromFS(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		r.engine.GET("/docs/*filepath", func(c *gin.Context) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Docs not built",
				"message": "Run 'apidock build' to generate the documentation payloads",
			})
		})
		return
	}

	r.engine.Static("/docs", dir)
}

// Handler returns the http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
