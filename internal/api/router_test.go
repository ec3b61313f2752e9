package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/compass-assess/compass/internal/store"
)

func TestRouterRoutes(t *testing.T) {
	ms := new(MockStore)
	cfg := testConfig()
	cfg.Server.AdminToken = "secret"
	router := NewRouter(ms, &fakeEvents{}, cfg, discardLogger())

	id := uuid.New()
	ms.On("GetAssessment", mock.Anything, id).Return(nil, store.ErrAssessmentNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assessments/"+id.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Admin routes require the bearer token.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	ms.On("GetStats", mock.Anything).Return(&store.AssessmentStats{Total: 3}, nil)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsRouterHealth(t *testing.T) {
	router := NewMetricsRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
