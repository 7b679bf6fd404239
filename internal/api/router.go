// Package api serves the local JSON API used by dashboards and scripts.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"workbuddy/internal/app"
)

// NewRouter builds the gin engine over core.
func NewRouter(core *app.App, logger hclog.Logger) *gin.Engine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("api")
	handler := &Handler{core: core, logger: logger}

	engine := gin.New()
	engine.Use(requestLogger(logger), gin.Recovery())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	api.GET("/status", handler.Status)
	api.GET("/summary", handler.Summary)

	api.GET("/settings", handler.GetSettings)
	api.PATCH("/settings", handler.UpdateSettings)

	api.POST("/reminders/:kind", handler.TriggerReminder)
	api.POST("/energy", handler.LogEnergy)

	focusGroup := api.Group("/focus")
	focusGroup.GET("", handler.FocusStatus)
	focusGroup.GET("/stats", handler.FocusStats)
	focusGroup.POST("/start", handler.StartFocus)
	focusGroup.POST("/break", handler.StartBreak)
	focusGroup.POST("/pause", handler.PauseFocus)
	focusGroup.POST("/resume", handler.ResumeFocus)
	focusGroup.POST("/stop", handler.StopFocus)

	return engine
}

func requestLogger(logger hclog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		logger.Debug("request", "method", c.Request.Method, "path", path,
			"status", c.Writer.Status(), "duration", time.Since(start))
		for _, err := range c.Errors {
			logger.Warn("request failed", "method", c.Request.Method, "path", path, "error", err.Err)
		}
	}
}
