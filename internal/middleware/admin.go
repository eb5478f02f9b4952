package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/keyxmakerx/almanac/internal/apperror"
)

// RequireAdminToken returns middleware that accepts only requests carrying
// "Authorization: Bearer <token>" where token matches the bcrypt tokenHash.
// An empty tokenHash disables the guarded routes entirely.
func RequireAdminToken(tokenHash string) echo.MiddlewareFunc {
	hash := []byte(tokenHash)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(hash) == 0 {
				return apperror.NewForbidden("config editing is disabled on this server")
			}

			auth := c.Request().Header.Get("Authorization")
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || token == "" {
				return apperror.NewUnauthorized("admin token required")
			}
			if err := bcrypt.CompareHashAndPassword(hash, []byte(token)); err != nil {
				return apperror.NewUnauthorized("invalid admin token")
			}
			return next(c)
		}
	}
}
