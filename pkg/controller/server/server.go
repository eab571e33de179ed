package server

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/nibbler/pkg/domain/interfaces"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"github.com/m-mizutani/nibbler/pkg/utils/errutil"
	"github.com/m-mizutani/nibbler/pkg/utils/logging"
)

type Server struct {
	mux *chi.Mux
}

func safeWrite(w http.ResponseWriter, code int, body []byte) {
	w.WriteHeader(code)

	if _, err := w.Write(body); err != nil {
		logging.Default().Error("fail to write response", slog.Any("error", err))
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.Default().Error("fail to marshal response", slog.Any("error", err))
		safeWrite(w, http.StatusInternalServerError, []byte(`{"error":"internal error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	safeWrite(w, code, body)
}

type config struct {
	ghSecret     types.GitHubAppSecret
	triggerToken types.TriggerToken
	guard        admissionGuard
}

type Option func(*config)

func WithGitHubSecret(secret types.GitHubAppSecret) Option {
	return func(cfg *config) {
		cfg.ghSecret = secret
	}
}

// WithTriggerToken enables bearer token authentication on the trigger API.
// Without it the API endpoints are disabled entirely.
func WithTriggerToken(token types.TriggerToken) Option {
	return func(cfg *config) {
		cfg.triggerToken = token
	}
}

// WithGuard installs the admission guard in front of the trigger API.
func WithGuard(g admissionGuard) Option {
	return func(cfg *config) {
		cfg.guard = g
	}
}

func New(uc interfaces.UseCase, options ...Option) *Server {
	cfg := &config{}
	for _, opt := range options {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(preProcess)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		safeWrite(w, http.StatusOK, []byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		if cfg.guard != nil {
			r.Use(admissionMiddleware(cfg.guard))
		}
		r.Use(tokenAuth(cfg.triggerToken))

		r.Post("/nightly/run", func(w http.ResponseWriter, r *http.Request) {
			// The batch outlives the request; run it detached and report
			// acceptance only.
			bgCtx := DetachContext(r.Context())
			go func() {
				if _, err := uc.RunNightly(bgCtx); err != nil {
					errutil.HandleError(bgCtx, "nightly run failed", err)
				}
			}()

			safeWrite(w, http.StatusAccepted, []byte(`{"status":"accepted"}`))
		})

		r.Post("/repos/{owner}/{repo}/run", func(w http.ResponseWriter, r *http.Request) {
			owner := chi.URLParam(r, "owner")
			repo := chi.URLParam(r, "repo")

			outcome, err := uc.RunRepository(r.Context(), owner, repo)
			if err != nil {
				errutil.HandleError(r.Context(), "repository run failed", err)
				writeJSON(w, httpStatusOf(err), map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, outcome)
		})

		r.Post("/registry/refresh", func(w http.ResponseWriter, r *http.Request) {
			if err := uc.RefreshRegistry(r.Context()); err != nil {
				errutil.HandleError(r.Context(), "registry refresh failed", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			safeWrite(w, http.StatusOK, []byte(`{"status":"ok"}`))
		})

		r.Get("/installations", func(w http.ResponseWriter, r *http.Request) {
			installations, err := uc.ListInstallations(r.Context())
			if err != nil {
				errutil.HandleError(r.Context(), "listing installations failed", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, installations)
		})
	})

	r.Route("/webhook", func(r chi.Router) {
		r.Route("/github", func(r chi.Router) {
			r.Post("/app", func(w http.ResponseWriter, r *http.Request) {
				if err := handleGitHubAppEvent(uc, r, cfg.ghSecret); err != nil {
					errutil.HandleError(r.Context(), "fail to handle GitHub App event", err)
					safeWrite(w, http.StatusBadRequest, []byte(`{"error":"invalid event"}`))
					return
				}
				safeWrite(w, http.StatusOK, []byte(`{"status":"ok"}`))
			})
		})
	})

	return &Server{
		mux: r,
	}
}

func (x *Server) Mux() *chi.Mux {
	return x.mux
}
