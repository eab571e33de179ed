package server

import (
	"crypto/subtle"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"github.com/m-mizutani/nibbler/pkg/guard"
	"github.com/m-mizutani/nibbler/pkg/utils/logging"
)

func preProcess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.Default().With(slog.String("request_id", uuid.NewString()))

		ctx := logging.With(r.Context(), logger)

		lw := &statusCodeLogger{
			ResponseWriter: w,
			statusCode:     http.StatusOK, // Default to 200 if WriteHeader is not called
		}

		requestedAt := time.Now()
		next.ServeHTTP(lw, r.WithContext(ctx))

		logger.Info("http access",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.Int("status_code", lw.statusCode),
			slog.Int64("content_length", r.ContentLength),
			slog.String("user_agent", r.UserAgent()),
			slog.String("referer", r.Referer()),
			slog.Duration("elapsed", time.Since(requestedAt)),
		)
	})
}

type statusCodeLogger struct {
	http.ResponseWriter
	statusCode int
}

func (x *statusCodeLogger) WriteHeader(code int) {
	x.statusCode = code
	x.ResponseWriter.WriteHeader(code)
}

// admissionGuard is the decision surface the middleware needs from the guard.
type admissionGuard interface {
	Check(key, host, path, agent string) guard.Decision
}

// admissionMiddleware applies the guard to every request under its subtree.
// Static rejections answer 404 so probes learn nothing about the routing
// table; rate decisions answer 429 with a Retry-After hint when known.
func admissionMiddleware(g admissionGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := g.Check(clientKey(r), r.Host, r.URL.Path, r.UserAgent())

			switch decision.Verdict {
			case guard.VerdictAllowed:
				next.ServeHTTP(w, r)

			case guard.VerdictRateLimited, guard.VerdictBlocked:
				if decision.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(decision.RetryAfter/time.Second)))
				}
				logging.From(r.Context()).Warn("request rejected by guard",
					slog.String("verdict", string(decision.Verdict)),
					slog.String("remote_addr", r.RemoteAddr),
				)
				safeWrite(w, http.StatusTooManyRequests, []byte(`{"error":"too many requests"}`))

			default:
				logging.From(r.Context()).Warn("request rejected by guard",
					slog.String("verdict", string(decision.Verdict)),
					slog.String("remote_addr", r.RemoteAddr),
				)
				http.NotFound(w, r)
			}
		})
	}
}

// clientKey identifies the caller for rate accounting. The port changes per
// connection, so only the address part is used.
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// tokenAuth requires a matching bearer token on every request. An empty
// configured token disables the API.
func tokenAuth(token types.TriggerToken) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				http.NotFound(w, r)
				return
			}

			presented, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				safeWrite(w, http.StatusUnauthorized, []byte(`{"error":"unauthorized"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func httpStatusOf(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrValidation), errors.Is(err, types.ErrInvalidGitHubData):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
