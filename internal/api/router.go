package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RegisterRoutes maps the assignment endpoints, the health check and the metrics handler (nil skips /metrics)
func RegisterRoutes(e *echo.Echo, handler *Handler, metricsHandler http.Handler) {
	e.Use(middleware.Recover())

	e.GET("/healthz", Health)
	if metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(metricsHandler))
	}

	g := e.Group("/assignments")
	g.POST("/assign", handler.Assign)
	g.GET("", handler.List)
	g.GET("/", handler.List)
	g.GET("/student/:id", handler.ByStudent)
}
