// Package pages holds full-page components shared across plugins.
package pages

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// ErrorPage renders a minimal HTML error page for browser requests.
func ErrorPage(code int, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%d %s</title></head>`+
				`<body><main class="error-page"><h1>%d</h1><p>%s</p></main></body></html>`,
			code, templ.EscapeString(http.StatusText(code)),
			code, templ.EscapeString(message))
		return err
	})
}
