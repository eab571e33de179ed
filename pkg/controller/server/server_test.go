package server_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/nibbler/pkg/controller/server"
	"github.com/m-mizutani/nibbler/pkg/domain/mock"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"github.com/m-mizutani/nibbler/pkg/guard"
)

const testToken = types.TriggerToken("trigger-token-1234")

func TestHealth(t *testing.T) {
	srv := server.New(&mock.UseCaseMock{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)

	gt.V(t, rec.Code).Equal(http.StatusOK)
	gt.V(t, rec.Body.String()).Equal("ok")
}

func TestAPIDisabledWithoutToken(t *testing.T) {
	srv := server.New(&mock.UseCaseMock{})

	req := httptest.NewRequest(http.MethodPost, "/api/registry/refresh", nil)
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)

	gt.V(t, rec.Code).Equal(http.StatusNotFound)
}

func TestAPITokenAuth(t *testing.T) {
	mockUC := &mock.UseCaseMock{
		RefreshRegistryFunc: func(ctx context.Context) error {
			return nil
		},
	}
	srv := server.New(mockUC, server.WithTriggerToken(testToken))

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/registry/refresh", nil)
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)
		gt.V(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/registry/refresh", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)
		gt.V(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/registry/refresh", nil)
		req.Header.Set("Authorization", "Bearer "+string(testToken))
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)
		gt.V(t, rec.Code).Equal(http.StatusOK)
	})
}

func TestRunRepositoryEndpoint(t *testing.T) {
	mockUC := &mock.UseCaseMock{
		RunRepositoryFunc: func(ctx context.Context, owner, name string) (*model.WorkflowOutcome, error) {
			gt.V(t, owner).Equal("blue")
			gt.V(t, name).Equal("api")
			return &model.WorkflowOutcome{
				Repo:       "blue/api",
				Status:     model.OutcomeSuccess,
				PullReqURL: "https://github.com/blue/api/pull/34",
			}, nil
		},
	}
	srv := server.New(mockUC, server.WithTriggerToken(testToken))

	req := httptest.NewRequest(http.MethodPost, "/api/repos/blue/api/run", nil)
	req.Header.Set("Authorization", "Bearer "+string(testToken))
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)

	gt.V(t, rec.Code).Equal(http.StatusOK)
	gt.S(t, rec.Body.String()).
		Contains(`"status":"success"`).
		Contains("pull/34")
}

func TestNightlyRunAccepted(t *testing.T) {
	done := make(chan struct{})
	mockUC := &mock.UseCaseMock{
		RunNightlyFunc: func(ctx context.Context) (*model.NightlyReport, error) {
			close(done)
			return &model.NightlyReport{}, nil
		},
	}
	srv := server.New(mockUC, server.WithTriggerToken(testToken))

	req := httptest.NewRequest(http.MethodPost, "/api/nightly/run", nil)
	req.Header.Set("Authorization", "Bearer "+string(testToken))
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)

	gt.V(t, rec.Code).Equal(http.StatusAccepted)
	<-done
}

func TestGuardMiddleware(t *testing.T) {
	g := guard.New(guard.Config{
		AllowedHosts:        []string{"nibbler.example.com"},
		DeniedAgentPatterns: []string{"sqlmap"},
		MaxRequests:         2,
		Window:              guard.DefaultConfig().Window,
		MaxViolations:       3,
		BlockDuration:       guard.DefaultConfig().BlockDuration,
	})
	mockUC := &mock.UseCaseMock{
		RefreshRegistryFunc: func(ctx context.Context) error {
			return nil
		},
	}
	srv := server.New(mockUC, server.WithTriggerToken(testToken), server.WithGuard(g))

	call := func(host, agent string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/registry/refresh", nil)
		req.Host = host
		req.Header.Set("Authorization", "Bearer "+string(testToken))
		if agent != "" {
			req.Header.Set("User-Agent", agent)
		}
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)
		return rec
	}

	t.Run("unknown host looks like no route", func(t *testing.T) {
		gt.V(t, call("other.example.com", "").Code).Equal(http.StatusNotFound)
	})

	t.Run("scanner agent looks like no route", func(t *testing.T) {
		gt.V(t, call("nibbler.example.com", "sqlmap/1.7").Code).Equal(http.StatusNotFound)
	})

	t.Run("rate limit answers 429 with retry hint", func(t *testing.T) {
		gt.V(t, call("nibbler.example.com", "").Code).Equal(http.StatusOK)
		gt.V(t, call("nibbler.example.com", "").Code).Equal(http.StatusOK)

		rec := call("nibbler.example.com", "")
		gt.V(t, rec.Code).Equal(http.StatusTooManyRequests)
		gt.V(t, rec.Header().Get("Retry-After") != "").Equal(true)
	})
}

func signPayload(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookSignature(t *testing.T) {
	const secret = "webhook-secret"
	applied := false
	mockUC := &mock.UseCaseMock{
		ApplyInstallationEventFunc: func(ctx context.Context, ev *model.InstallationEvent) error {
			applied = true
			gt.V(t, ev.Action).Equal(model.InstallationCreated)
			gt.V(t, ev.InstallID).Equal(types.GitHubAppInstallID(42))
			gt.V(t, ev.Account).Equal("blue")
			return nil
		},
	}
	srv := server.New(mockUC, server.WithGitHubSecret(types.GitHubAppSecret(secret)))

	body := []byte(`{"action":"created","installation":{"id":42,"account":{"login":"blue"}},"repositories":[{"id":1,"full_name":"blue/api"}]}`)

	t.Run("bad signature rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook/github/app", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-GitHub-Event", "installation")
		req.Header.Set("X-Hub-Signature-256", signPayload("wrong", body))
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusBadRequest)
		gt.V(t, applied).Equal(false)
	})

	t.Run("valid signature applied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook/github/app", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-GitHub-Event", "installation")
		req.Header.Set("X-Hub-Signature-256", signPayload(secret, body))
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.V(t, applied).Equal(true)
	})
}

func TestWebhookIgnoresUnknownEvent(t *testing.T) {
	const secret = "webhook-secret"
	srv := server.New(&mock.UseCaseMock{}, server.WithGitHubSecret(types.GitHubAppSecret(secret)))

	body := []byte(`{"zen":"Keep it logically awesome."}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook/github/app", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", "ping")
	req.Header.Set("X-Hub-Signature-256", signPayload(secret, body))
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)

	gt.V(t, rec.Code).Equal(http.StatusOK)
}
