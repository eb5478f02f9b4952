package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/almanac/internal/apperror"
	"github.com/keyxmakerx/almanac/internal/middleware"
	"github.com/keyxmakerx/almanac/internal/plugins/calendar"
)

// RegisterRoutes wires the health check and the date plugin.
func (a *App) RegisterRoutes() {
	e := a.Echo

	e.GET("/healthz", a.healthz)

	repo := calendar.NewConfigRepository(a.DB)
	svc := calendar.NewDateService(repo)
	h := calendar.NewHandler(svc)

	requireAdmin := middleware.RequireAdminToken(a.Config.Auth.AdminTokenHash)
	publicLimit := middleware.RateLimit(a.Redis, "ratelimit:dates",
		a.Config.RateLimit.Requests, a.Config.RateLimit.Window)
	calendar.RegisterRoutes(e, h, requireAdmin, publicLimit)
}

// healthz reports whether MariaDB and Redis answer.
func (a *App) healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := a.DB.PingContext(ctx); err != nil {
		return apperror.NewUnavailable("database unreachable", err)
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		return apperror.NewUnavailable("redis unreachable", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
