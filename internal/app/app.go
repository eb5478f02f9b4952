// Package app is the server bootstrap and dependency injection root. It
// holds the shared infrastructure (DB pool, Redis client, Echo instance) and
// wires the date plugin onto it.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/almanac/internal/apperror"
	"github.com/keyxmakerx/almanac/internal/config"
	"github.com/keyxmakerx/almanac/internal/middleware"
	"github.com/keyxmakerx/almanac/internal/templates/pages"
)

// defaultTrustedProxies are used when TRUSTED_PROXIES is unset: loopback
// plus the private ranges Docker networks route through.
var defaultTrustedProxies = []string{
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"fd00::/8",
}

// App holds all shared dependencies and the Echo HTTP server instance.
type App struct {
	Config *config.Config
	DB     *sql.DB
	Redis  *redis.Client
	Echo   *echo.Echo
}

// New creates an App and configures Echo with global middleware and the
// error handler. Routes are added by RegisterRoutes.
func New(cfg *config.Config, db *sql.DB, rdb *redis.Client) *App {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	proxies := cfg.HTTP.TrustedProxies
	if len(proxies) == 0 {
		proxies = defaultTrustedProxies
	}
	middleware.TrustedProxies(e, proxies)

	app := &App{Config: cfg, DB: db, Redis: rdb, Echo: e}
	app.setupMiddleware()
	e.HTTPErrorHandler = app.errorHandler
	return app
}

// setupMiddleware registers global middleware. Recovery is outermost so it
// sees panics from everything below it.
func (a *App) setupMiddleware() {
	a.Echo.Use(middleware.Recovery())
	a.Echo.Use(middleware.RequestLogger())
	a.Echo.Use(middleware.SecurityHeaders())
	if len(a.Config.HTTP.AllowedOrigins) > 0 {
		a.Echo.Use(middleware.CORS(a.Config.HTTP.AllowedOrigins))
	}
}

// errorHandler maps errors to responses: JSON for /api and /healthz, an
// HTML error page for everything else. Only AppError messages reach the
// client; anything else becomes a generic 500.
func (a *App) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "An unexpected error occurred"

	appErr, isAppErr := apperror.As(err)
	var echoErr *echo.HTTPError
	switch {
	case isAppErr:
		code = appErr.Code
		message = appErr.Message
		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.String("message", appErr.Message),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
			)
		}
	case errors.As(err, &echoErr):
		code = echoErr.Code
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	default:
		slog.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
		)
	}

	var writeErr error
	if isAPIRequest(c) {
		writeErr = c.JSON(code, map[string]string{
			"error":   http.StatusText(code),
			"message": message,
		})
	} else {
		writeErr = middleware.Render(c, code, pages.ErrorPage(code, message))
	}
	if writeErr != nil {
		slog.Warn("writing error response", slog.Any("error", writeErr))
	}
}

// isAPIRequest returns true if the client expects JSON.
func isAPIRequest(c echo.Context) bool {
	path := c.Request().URL.Path
	return strings.HasPrefix(path, "/api/") || path == "/healthz"
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting Almanac server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
	)
	return a.Echo.Start(addr)
}
