package calendar

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all date plugin routes. Reading and rendering are
// public and never write; storing a namespace's config requires the admin
// token. publicLimit throttles every public endpoint.
func RegisterRoutes(e *echo.Echo, h *Handler, requireAdmin, publicLimit echo.MiddlewareFunc) {
	api := e.Group("/api/v1/dates/:ns")

	// Config document.
	api.GET("/config", h.GetConfigAPI, publicLimit)
	api.GET("/config/revisions", h.ListRevisionsAPI, publicLimit)
	api.PUT("/config", h.UpdateConfigAPI, requireAdmin)
	api.POST("/config/default", h.SeedConfigAPI, requireAdmin)

	// Rendering.
	api.POST("/format", h.FormatAPI, publicLimit)
	api.POST("/render", h.RenderAPI, publicLimit)

	// Browser preview.
	e.GET("/dates/:ns/preview", h.ShowPreview, publicLimit)
}
