package calendar

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// PreviewData holds everything the preview page displays.
type PreviewData struct {
	Namespace string
	Query     string
	Mode      string
	Result    *FormatResult
	Error     string
}

// PreviewPage renders a small standalone page showing how a date expression
// formats under a namespace's calendar.
func PreviewPage(data PreviewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		e := templ.EscapeString
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s dates</title></head><body>`,
			e(data.Namespace)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w,
			`<main class="date-preview"><h1>%s</h1><p class="mode">%s calendar</p>`,
			e(data.Namespace), e(data.Mode)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w,
			`<form method="get"><input type="text" name="date" value="%s" placeholder="372-2-12"><label><input type="checkbox" name="age" value="1"> age</label><button type="submit">Format</button></form>`,
			e(data.Query)); err != nil {
			return err
		}

		switch {
		case data.Error != "":
			if _, err := fmt.Fprintf(w, `<p class="error">%s</p>`, e(data.Error)); err != nil {
				return err
			}
		case data.Result != nil:
			if _, err := fmt.Fprintf(w, `<dl><dt>Rendered</dt><dd class="text">%s</dd>`, e(data.Result.Text)); err != nil {
				return err
			}
			if data.Result.Weekday != "" {
				if _, err := fmt.Fprintf(w, `<dt>Weekday</dt><dd>%s</dd>`, e(data.Result.Weekday)); err != nil {
					return err
				}
			}
			if data.Result.Age != nil {
				if _, err := fmt.Fprintf(w, `<dt>Age</dt><dd>%s</dd>`, strconv.Itoa(*data.Result.Age)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</dl>`); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
