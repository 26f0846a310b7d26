package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"arcology/site/internal/db"
	"arcology/site/internal/http/templates"
)

const (
	htmlContentType      = "text/html; charset=utf-8"
	errorFallbackMessage = "We couldn't process your request right now."
	notFoundMessage      = "We couldn't find the page you were looking for."
)

type htmlResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Location    string `header:"Location"`
	Body        []byte
}

type healthResponse struct {
	Status int
	Body   struct {
		Status       string `json:"status"`
		Database     string `json:"database"`
		Consultation string `json:"consultation"`
	}
}

func (s *Server) registerHealthRoute() {
	huma.Get(s.api, "/healthz", s.healthHandler, func(op *huma.Operation) {
		op.Summary = "Health check"
	})
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{Status: stdhttp.StatusOK}
	resp.Body.Status = "ok"
	resp.Body.Database = "ok"
	resp.Body.Consultation = "configured"

	if err := db.Ping(ctx, s.db); err != nil {
		s.recordError(ctx, err, "database health check failed", nil)
		resp.Status = stdhttp.StatusServiceUnavailable
		resp.Body.Status = "degraded"
		resp.Body.Database = "unreachable"
	}

	// Scheduling is optional; an unconfigured endpoint does not degrade the site.
	if configurable, ok := s.booker.(interface{ Configured() bool }); ok && !configurable.Configured() {
		resp.Body.Consultation = "unconfigured"
	}

	return resp, nil
}

func newHTMLResponse(status int, body []byte) *htmlResponse {
	return &htmlResponse{
		Status:      status,
		ContentType: htmlContentType,
		Body:        body,
	}
}

func redirectResponse(status int, location string) *htmlResponse {
	response := newHTMLResponse(status, nil)
	response.Location = location
	return response
}

func htmlOperation(summary string, statuses ...int) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		if summary != "" {
			op.Summary = summary
		}
		if op.Responses == nil {
			op.Responses = map[string]*huma.Response{}
		}

		statusCodes := append([]int{stdhttp.StatusOK}, statuses...)
		for _, status := range statusCodes {
			code := strconv.Itoa(status)
			op.Responses[code] = &huma.Response{
				Description: stdhttp.StatusText(status),
				Content: map[string]*huma.MediaType{
					htmlContentType: {
						Schema: &huma.Schema{Type: "string"},
					},
				},
			}
		}
	}
}

func (s *Server) layout(title, path string, loading bool) templates.LayoutData {
	data := templates.LayoutData{
		Title:      s.theme.Brand,
		Theme:      s.theme,
		ActivePath: path,
		Year:       s.now().Year(),
	}
	if title != "" {
		data.Title = fmt.Sprintf("%s • %s", title, s.theme.Brand)
	}
	if loading {
		data.RefreshSeconds = loadingRefreshSeconds
	}
	return data
}

func (s *Server) renderPage(ctx context.Context, status int, layout templates.LayoutData, body templ.Component) (*htmlResponse, error) {
	out, err := renderComponent(ctx, templates.Page(layout, body))
	if err != nil {
		s.recordError(ctx, err, "rendering page", logrus.Fields{"path": layout.ActivePath})
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't render this page right now.")
	}
	return newHTMLResponse(status, out), nil
}

func (s *Server) renderErrorResponse(ctx context.Context, status int, message string) (*htmlResponse, error) {
	label := fmt.Sprintf("%d %s", status, stdhttp.StatusText(status))
	layout := s.layout(label, "", false)
	template := templates.Page(layout, templates.ErrorPage(templates.ErrorPageData{
		StatusLabel: label,
		Message:     message,
	}))

	body, err := renderComponent(ctx, template)
	if err != nil {
		s.recordError(ctx, err, "rendering error page", logrus.Fields{"status": status})
		fallback := []byte(fmt.Sprintf("<html><body><h1>%s</h1><p>%s</p></body></html>", label, templ.EscapeString(message)))
		return newHTMLResponse(status, fallback), nil
	}

	return newHTMLResponse(status, body), nil
}

// notFoundHandler answers paths that only matched the catch-all home route.
func (s *Server) notFoundHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	resp, _ := s.renderErrorResponse(r.Context(), stdhttp.StatusNotFound, notFoundMessage)
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.Status)
	if r.Method != stdhttp.MethodHead {
		_, _ = w.Write(resp.Body)
	}
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	merged := logrus.Fields{"component": "http"}
	for k, v := range fields {
		merged[k] = v
	}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		merged["request_id"] = requestID
	}

	s.reporter.Record(ctx, merged, err, message)
}
