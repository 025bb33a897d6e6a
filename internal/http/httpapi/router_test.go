package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"adgen/internal/http/handlers"
	"adgen/internal/infra"
)

func newTestRouter() http.Handler {
	logger := zerolog.Nop()
	cfg := &infra.Config{
		DefaultLocale:   "en",
		CORSOrigins:     []string{"http://localhost:3000"},
		RateLimitPerMin: 30,
	}
	app := handlers.NewApp(nil, nil, logger)
	return NewRouter(app, cfg, logger, nil)
}

func TestRouterHealth(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status mismatch: %d", rec.Code)
	}
}

func TestRouterPipelineRequiresUser(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/v1/pipeline/runs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status mismatch: %d", rec.Code)
	}
}

func TestRouterRunsWithoutHistory(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/v1/runs", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status mismatch: %d", rec.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/v1/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status mismatch: %d", rec.Code)
	}
}
