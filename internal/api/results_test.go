package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/compass-assess/compass/internal/scoring"
	"github.com/compass-assess/compass/internal/store"
)

func resultsRouter(h *ResultsHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/assessments/{id}/results", h.Get)
	return r
}

func TestResultsWeighted(t *testing.T) {
	ms := new(MockStore)
	h := NewResultsHandler(ms)

	catA := uuid.New()
	catB := uuid.New()
	dimA := uuid.New()
	dimB := uuid.New()
	sid := uuid.New()
	a := &store.Assessment{ID: uuid.New(), Company: "Acme", Sector: "manufacturing", SchemeID: &sid}

	ms.On("GetAssessment", mock.Anything, a.ID).Return(a, nil)
	ms.On("GetScheme", mock.Anything, sid).Return(&store.WeightingScheme{
		ID: sid,
		CategoryWeights: []scoring.CategoryWeight{
			{CategoryID: catA, Weight: 0.25},
			{CategoryID: catB, Weight: 0.75},
		},
	}, nil)
	ms.On("GetScores", mock.Anything, a.ID).Return([]scoring.Score{
		{DimensionID: dimA, Level: 2},
		{DimensionID: dimB, Level: 4},
	}, nil)
	ms.On("GetTemplate", mock.Anything, "manufacturing").Return(scoring.Template{
		Categories: []scoring.TemplateCategory{
			{CategoryID: catA, DimensionIDs: []uuid.UUID{dimA}},
			{CategoryID: catB, DimensionIDs: []uuid.UUID{dimB}},
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/assessments/"+a.ID.String()+"/results", nil)
	rec := httptest.NewRecorder()
	resultsRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var result scoring.Result
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, scoring.CalcWeighted, result.CalculationUsed)
	if assert.NotNil(t, result.OverallScore) {
		assert.InDelta(t, 0.25*2+0.75*4, *result.OverallScore, 1e-9)
	}
	assert.InDelta(t, 5.0, result.OverallMaxPossibleScore, 1e-9)
	assert.Len(t, result.Categories, 2)
}

func TestResultsDanglingSchemeOverride(t *testing.T) {
	ms := new(MockStore)
	h := NewResultsHandler(ms)

	a := &store.Assessment{ID: uuid.New(), Company: "Acme", Sector: "manufacturing"}
	sid := uuid.New()

	ms.On("GetAssessment", mock.Anything, a.ID).Return(a, nil)
	ms.On("GetScheme", mock.Anything, sid).Return(nil, store.ErrSchemeNotFound)

	req := httptest.NewRequest(http.MethodGet, "/assessments/"+a.ID.String()+"/results?scheme_id="+sid.String(), nil)
	rec := httptest.NewRecorder()
	resultsRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "scheme is unavailable")
	ms.AssertNotCalled(t, "GetScores", mock.Anything, mock.Anything)
}

func TestResultsNotFound(t *testing.T) {
	ms := new(MockStore)
	h := NewResultsHandler(ms)

	id := uuid.New()
	ms.On("GetAssessment", mock.Anything, id).Return(nil, store.ErrAssessmentNotFound)

	req := httptest.NewRequest(http.MethodGet, "/assessments/"+id.String()+"/results", nil)
	rec := httptest.NewRecorder()
	resultsRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResultsPercentScale(t *testing.T) {
	ms := new(MockStore)
	h := NewResultsHandler(ms)

	catID := uuid.New()
	dimID := uuid.New()
	a := &store.Assessment{ID: uuid.New(), Company: "Acme", Sector: "manufacturing"}

	ms.On("GetAssessment", mock.Anything, a.ID).Return(a, nil)
	ms.On("GetScores", mock.Anything, a.ID).Return([]scoring.Score{{DimensionID: dimID, Level: 4}}, nil)
	ms.On("GetTemplate", mock.Anything, "manufacturing").Return(scoring.Template{
		Categories: []scoring.TemplateCategory{
			{CategoryID: catID, DimensionIDs: []uuid.UUID{dimID}},
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/assessments/"+a.ID.String()+"/results?scale=percent", nil)
	rec := httptest.NewRecorder()
	resultsRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var result scoring.Result
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	if assert.NotNil(t, result.OverallScore) {
		assert.InDelta(t, 80.0, *result.OverallScore, 1e-9)
	}
	assert.InDelta(t, 100.0, result.OverallMaxPossibleScore, 1e-9)
}
