package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/keyxmakerx/almanac/internal/apperror"
)

func runAdmin(t *testing.T, tokenHash, authHeader string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/dates/wiki/config", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	return RequireAdminToken(tokenHash)(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})(c)
}

func assertCode(t *testing.T, err error, want int) {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError with code %d, got %v", want, err)
	}
	if appErr.Code != want {
		t.Errorf("expected code %d, got %d", want, appErr.Code)
	}
}

func TestRequireAdminToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-token"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing token: %v", err)
	}

	t.Run("valid token", func(t *testing.T) {
		if err := runAdmin(t, string(hash), "Bearer s3cret-token"); err != nil {
			t.Errorf("expected success, got %v", err)
		}
	})
	t.Run("wrong token", func(t *testing.T) {
		assertCode(t, runAdmin(t, string(hash), "Bearer nope"), http.StatusUnauthorized)
	})
	t.Run("missing header", func(t *testing.T) {
		assertCode(t, runAdmin(t, string(hash), ""), http.StatusUnauthorized)
	})
	t.Run("not bearer", func(t *testing.T) {
		assertCode(t, runAdmin(t, string(hash), "Basic s3cret-token"), http.StatusUnauthorized)
	})
	t.Run("editing disabled", func(t *testing.T) {
		assertCode(t, runAdmin(t, "", "Bearer s3cret-token"), http.StatusForbidden)
	})
}
