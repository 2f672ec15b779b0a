package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/adapter/httpserver"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/config"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/usecase"
)

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, ParseOrigins(""))
	assert.Equal(t, []string{"*"}, ParseOrigins("*"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		ParseOrigins(" https://a.example , https://b.example "))
	assert.Equal(t, []string{"*"}, ParseOrigins(" , , "))
}

func TestBuildRouter_BasicRoutes(t *testing.T) {
	cfg := config.Config{CORSAllowOrigins: "*", RateLimitPerMin: 100, GeminiAPIKey: "key"}
	// Zero-valued services are fine for routing-level checks.
	h := BuildRouter(cfg, httpserver.NewServer(cfg,
		usecase.ResumeService{}, usecase.InterviewService{}, usecase.ReportService{}, nil, nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/config", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// No session cookie on a session-scoped route.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/interview/question", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
