package reqlog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderRequestID is the response header carrying the correlation id.
const HeaderRequestID = "X-Request-ID"

// errorLocalsKey is where inner stages stash the internal cause of a
// rejection so the completion event can carry it without the response ever
// leaking it.
const errorLocalsKey = "reqlog_error"

type contextKey struct{ name string }

var requestIDCtxKey = &contextKey{"request_id"}

// Config defines the request logger middleware configuration.
type Config struct {
	// Logger receives the structured events. Defaults to slog.Default().
	Logger *slog.Logger

	// Filter skips the middleware for matching requests.
	Filter func(*fiber.Ctx) bool
}

// New returns the outermost pipeline stage: it assigns a fresh correlation
// id, snapshots the request with sensitive headers omitted, emits an entry
// event, times the inner chain, and emits a completion event at a level
// matching the response status band. It never alters the response and never
// fails the request.
func New(config ...Config) fiber.Handler {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		logger := cfg.Logger
		if logger == nil {
			logger = slog.Default()
		}

		requestID := uuid.NewString()
		start := time.Now()

		c.Set(HeaderRequestID, requestID)
		c.SetUserContext(WithRequestID(c.UserContext(), requestID))

		method := c.Method()
		uri := c.OriginalURL()
		proto := string(c.Request().Header.Protocol())
		headers := redactHeaders(c.GetReqHeaders())

		logger.LogAttrs(c.UserContext(), slog.LevelInfo, "request started",
			slog.String("request_id", requestID),
			slog.String("method", method),
			slog.String("uri", uri),
			slog.String("version", proto),
			slog.Any("headers", headers),
		)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = http.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}

		duration := time.Since(start)
		level, msg := statusOutcome(status)

		attrs := []slog.Attr{
			slog.String("request_id", requestID),
			slog.String("method", method),
			slog.String("uri", uri),
			slog.String("path", routePath(c)),
			slog.Int("status", status),
			slog.Int64("duration_ms", duration.Milliseconds()),
		}
		if cause := LoggedError(c); cause != nil {
			attrs = append(attrs, slog.String("error", cause.Error()))
		} else if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}

		logger.LogAttrs(c.UserContext(), level, msg, attrs...)

		return err
	}
}

// SetError records the internal cause of a rejection for the completion
// event. Guards call this before writing their uniform response body.
func SetError(c *fiber.Ctx, err error) {
	if err != nil {
		c.Locals(errorLocalsKey, err)
	}
}

// LoggedError returns the cause recorded by SetError, if any.
func LoggedError(c *fiber.Ctx) error {
	err, _ := c.Locals(errorLocalsKey).(error)
	return err
}

// WithRequestID attaches the correlation id to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey, id)
}

// RequestID extracts the correlation id, empty when absent.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}

// statusOutcome maps a response status into a log level and message by
// band: 2xx/3xx informational, 4xx warning, 5xx error, anything else debug.
func statusOutcome(status int) (slog.Level, string) {
	switch {
	case status >= 200 && status < 300:
		return slog.LevelInfo, "request completed"
	case status >= 300 && status < 400:
		return slog.LevelInfo, "request redirected"
	case status >= 400 && status < 500:
		return slog.LevelWarn, "request client error"
	case status >= 500 && status < 600:
		return slog.LevelError, "request server error"
	default:
		return slog.LevelDebug, "request finished"
	}
}

// routePath resolves the templated route pattern when the router matched
// one, so log lines aggregate by route shape rather than by resource id.
func routePath(c *fiber.Ctx) string {
	if route := c.Route(); route != nil && route.Path != "" && route.Path != "/" {
		return route.Path
	}
	return c.Path()
}

// redactHeaders snapshots request headers, fully omitting any header whose
// lowercased name contains authorization, cookie, or token.
func redactHeaders(headers map[string][]string) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if sensitiveHeader(name) {
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func sensitiveHeader(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "authorization") ||
		strings.Contains(lower, "cookie") ||
		strings.Contains(lower, "token")
}
