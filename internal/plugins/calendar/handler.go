package calendar

import (
	"io"
	"net/http"
	"regexp"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/almanac/internal/apperror"
	"github.com/keyxmakerx/almanac/internal/middleware"
	"github.com/keyxmakerx/almanac/internal/sanitize"
)

// maxBodyBytes caps config documents and markdown bodies.
const maxBodyBytes = 1 << 20

// namespaceRe restricts namespaces to URL- and key-safe slugs.
var namespaceRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Handler processes HTTP requests for the date plugin.
type Handler struct {
	svc DateService
}

// NewHandler creates a new date Handler.
func NewHandler(svc DateService) *Handler {
	return &Handler{svc: svc}
}

// namespace reads and validates the :ns path parameter.
func namespace(c echo.Context) (string, error) {
	ns := c.Param("ns")
	if !namespaceRe.MatchString(ns) {
		return "", apperror.NewBadRequest("invalid namespace")
	}
	return ns, nil
}

// readBody reads the request body up to maxBodyBytes.
func readBody(c echo.Context) (string, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if err != nil {
		return "", apperror.NewBadRequest("could not read request body")
	}
	if len(body) > maxBodyBytes {
		return "", apperror.NewBadRequest("request body too large")
	}
	return string(body), nil
}

// GetConfigAPI returns the namespace's YAML document. A namespace with no
// stored document gets the default document and no Last-Modified header.
// GET /api/v1/dates/:ns/config
func (h *Handler) GetConfigAPI(c echo.Context) error {
	ns, err := namespace(c)
	if err != nil {
		return err
	}

	sc, err := h.svc.GetDocument(c.Request().Context(), ns)
	if err != nil {
		return err
	}
	if !sc.UpdatedAt.IsZero() {
		c.Response().Header().Set("Last-Modified", sc.UpdatedAt.UTC().Format(http.TimeFormat))
	}
	return c.Blob(http.StatusOK, "application/yaml; charset=utf-8", []byte(sc.Document))
}

// UpdateConfigAPI replaces the namespace's YAML document. The revision
// message comes from the X-Revision-Message header.
// PUT /api/v1/dates/:ns/config
func (h *Handler) UpdateConfigAPI(c echo.Context) error {
	ns, err := namespace(c)
	if err != nil {
		return err
	}
	doc, err := readBody(c)
	if err != nil {
		return err
	}
	message := sanitize.Text(c.Request().Header.Get("X-Revision-Message"))

	if err := h.svc.SaveDocument(c.Request().Context(), ns, doc, message); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SeedConfigAPI stores the default document for a namespace that has none.
// POST /api/v1/dates/:ns/config/default
func (h *Handler) SeedConfigAPI(c echo.Context) error {
	ns, err := namespace(c)
	if err != nil {
		return err
	}
	if err := h.svc.EnsureDefault(c.Request().Context(), ns); err != nil {
		return apperror.NewInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListRevisionsAPI returns the namespace's configuration history.
// GET /api/v1/dates/:ns/config/revisions?limit=N
func (h *Handler) ListRevisionsAPI(c echo.Context) error {
	ns, err := namespace(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	revs, err := h.svc.ListRevisions(c.Request().Context(), ns, limit)
	if err != nil {
		return err
	}
	if revs == nil {
		revs = []StoredConfig{}
	}
	return c.JSON(http.StatusOK, revs)
}

// formatRequest is the JSON body of FormatAPI. Month and day are omitted
// for coarser dates.
type formatRequest struct {
	Year       *int `json:"year"`
	Month      *int `json:"month"`
	Day        *int `json:"day"`
	IncludeAge bool `json:"include_age"`
}

// FormatAPI formats one date reference.
// POST /api/v1/dates/:ns/format
func (h *Handler) FormatAPI(c echo.Context) error {
	ns, err := namespace(c)
	if err != nil {
		return err
	}

	var req formatRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	if req.Year == nil {
		return apperror.NewBadRequest("year is required")
	}
	if req.Day != nil && req.Month == nil {
		return apperror.NewBadRequest("day requires month")
	}

	ref := DateReference{Year: *req.Year, Month: req.Month, Day: req.Day, IncludeAge: req.IncludeAge}
	result, err := h.svc.Format(c.Request().Context(), ns, ref)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// renderResponse is the JSON body returned by RenderAPI.
type renderResponse struct {
	Markdown string     `json:"markdown"`
	Errors   []TagError `json:"errors"`
}

// RenderAPI replaces every date tag in a markdown body.
// POST /api/v1/dates/:ns/render
func (h *Handler) RenderAPI(c echo.Context) error {
	ns, err := namespace(c)
	if err != nil {
		return err
	}
	md, err := readBody(c)
	if err != nil {
		return err
	}

	out, tagErrs, err := h.svc.RenderMarkdown(c.Request().Context(), ns, md)
	if err != nil {
		return err
	}
	if tagErrs == nil {
		tagErrs = []TagError{}
	}
	return c.JSON(http.StatusOK, renderResponse{Markdown: out, Errors: tagErrs})
}

// ShowPreview renders the HTML preview page. Formatting failures are shown
// on the page rather than as an error response.
// GET /dates/:ns/preview?date=372-2-12&age=1
func (h *Handler) ShowPreview(c echo.Context) error {
	ns, err := namespace(c)
	if err != nil {
		return err
	}

	data := PreviewData{Namespace: ns, Query: c.QueryParam("date"), Mode: ModeFantasy}
	if data.Query == "" {
		data.Query = "1"
	}

	ref, err := ParseDateReference(data.Query, c.QueryParam("age") != "")
	if err != nil {
		data.Error = err.Error()
		return middleware.Render(c, http.StatusOK, PreviewPage(data))
	}

	result, err := h.svc.Format(c.Request().Context(), ns, ref)
	if err != nil {
		if appErr, ok := apperror.As(err); ok && appErr.Code == http.StatusUnprocessableEntity {
			data.Error = appErr.Message
			return middleware.Render(c, http.StatusOK, PreviewPage(data))
		}
		return err
	}
	data.Result = result
	data.Mode = result.Mode
	return middleware.Render(c, http.StatusOK, PreviewPage(data))
}
