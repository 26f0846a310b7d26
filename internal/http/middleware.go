package http

import (
	"context"
	"net"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

const (
	rateLimitMessage = "You're sending requests a bit too quickly. Please wait a moment and try again."
	panicMessage     = "Something went wrong on our side. Please try again."
	sentryFlushWait  = 2 * time.Second
)

func (s *Server) requestIDMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		reqID := strings.TrimSpace(ctx.Header("X-Request-ID"))
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.NewString()
		}
		goCtx := context.WithValue(ctx.Context(), requestIDContextKey, reqID)
		ctx = huma.WithContext(ctx, goCtx)
		ctx.SetHeader("X-Request-ID", reqID)

		if hub := sentry.GetHubFromContext(goCtx); hub != nil {
			hub.Scope().SetTag("request_id", reqID)
		}

		next(ctx)
	}
}

func (s *Server) rateLimitMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		// Reads are served from the content cache; only submissions consume tokens.
		if s.rateLimiter == nil || isReadMethod(ctx.Method()) {
			next(ctx)
			return
		}

		req, _ := humago.Unwrap(ctx)
		if req == nil {
			next(ctx)
			return
		}

		ip := clientIPFromRequest(req)
		if s.rateLimiter.Allow(ip) {
			next(ctx)
			return
		}

		fields := requestFields(ctx.Context(), req)
		fields["ip"] = ip
		if s.logger != nil {
			s.logger.WithError(eris.New("rate limit exceeded")).WithFields(fields).Warn("request rate limited")
		}

		ctx.SetHeader("Retry-After", "1")

		if isAPIPath(req.URL.Path) {
			if err := huma.WriteErr(s.api, ctx, stdhttp.StatusTooManyRequests, "rate limit exceeded"); err != nil && s.logger != nil {
				s.logger.WithError(err).WithFields(fields).Error("writing rate limit problem failed")
			}
			return
		}

		resp, _ := s.renderErrorResponse(ctx.Context(), stdhttp.StatusTooManyRequests, rateLimitMessage)
		writeHTML(ctx, resp)
	}
}

func (s *Server) loggingMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if s.logger == nil {
			next(ctx)
			return
		}

		start := time.Now()
		next(ctx)

		status := ctx.Status()
		if status == 0 {
			status = stdhttp.StatusOK
		}

		req, _ := humago.Unwrap(ctx)
		fields := requestFields(ctx.Context(), req)
		fields["method"] = ctx.Method()
		fields["status"] = status
		fields["duration_ms"] = float64(time.Since(start).Microseconds()) / 1000
		if op := ctx.Operation(); op != nil {
			fields["route"] = op.Path
		}
		if req != nil {
			fields["remote_addr"] = req.RemoteAddr
		}

		entry := s.logger.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}

func (s *Server) recoveryMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			err, ok := rec.(error)
			if !ok {
				err = eris.Errorf("panic: %v", rec)
			}

			s.recordError(ctx.Context(), err, "panic recovered", nil)

			if hub := sentry.GetHubFromContext(ctx.Context()); hub != nil {
				hub.RecoverWithContext(ctx.Context(), rec)
				hub.Flush(sentryFlushWait)
			}

			req, _ := humago.Unwrap(ctx)
			if req != nil && isAPIPath(req.URL.Path) {
				_ = huma.WriteErr(s.api, ctx, stdhttp.StatusInternalServerError, "internal server error")
				return
			}

			resp, _ := s.renderErrorResponse(ctx.Context(), stdhttp.StatusInternalServerError, panicMessage)
			writeHTML(ctx, resp)
		}()

		next(ctx)
	}
}

func (s *Server) sentryMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if s.sentry == nil {
			next(ctx)
			return
		}

		hub := s.sentry.Clone()
		scope := hub.Scope()
		scope.SetTag("http.method", ctx.Method())
		if op := ctx.Operation(); op != nil {
			scope.SetTag("http.route", op.Path)
		}
		if req, _ := humago.Unwrap(ctx); req != nil {
			scope.SetRequest(req)
		}

		goCtx := sentry.SetHubOnContext(ctx.Context(), hub)
		ctx = huma.WithContext(ctx, goCtx)

		defer hub.Flush(sentryFlushWait)

		next(ctx)
	}
}

func writeHTML(ctx huma.Context, resp *htmlResponse) {
	if resp == nil {
		return
	}
	ctx.SetHeader("Content-Type", resp.ContentType)
	ctx.SetStatus(resp.Status)
	if ctx.Method() != stdhttp.MethodHead {
		_, _ = ctx.BodyWriter().Write(resp.Body)
	}
}

func requestFields(ctx context.Context, req *stdhttp.Request) logrus.Fields {
	fields := logrus.Fields{}
	if req != nil {
		fields["path"] = req.URL.Path
	}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		fields["request_id"] = requestID
	}
	return fields
}

func isReadMethod(method string) bool {
	return method == stdhttp.MethodGet || method == stdhttp.MethodHead || method == stdhttp.MethodOptions
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

func clientIPFromRequest(req *stdhttp.Request) string {
	if req == nil {
		return ""
	}

	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if candidate := strings.TrimSpace(first); candidate != "" {
			return candidate
		}
	}

	if realIP := strings.TrimSpace(req.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(req.RemoteAddr)
	}
	return host
}
