package api

import (
	"bytes"
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

func templatesRouter(h *TemplatesHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/templates/{sector}", h.Get)
	r.Put("/templates/{sector}", h.Put)
	return r
}

func TestGetTemplateUnknownSectorIsEmpty(t *testing.T) {
	ms := new(MockStore)
	h := NewTemplatesHandler(ms)

	ms.On("GetTemplate", mock.Anything, "retail").Return(scoring.Template{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/templates/retail", nil)
	rec := httptest.NewRecorder()
	templatesRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPutTemplate(t *testing.T) {
	ms := new(MockStore)
	h := NewTemplatesHandler(ms)

	ms.On("ReplaceTemplate", mock.Anything, "manufacturing", []store.TemplateCategoryInput{
		{Name: "Leadership", Dimensions: []string{"Vision", "Sponsorship"}},
	}).Return(scoring.Template{
		Categories: []scoring.TemplateCategory{
			{CategoryID: uuid.New(), Name: "Leadership", DimensionIDs: []uuid.UUID{uuid.New(), uuid.New()}},
		},
	}, nil)

	body := bytes.NewBufferString(`{"categories":[
		{"name":"Leadership","dimensions":["Vision","Sponsorship"]}
	]}`)
	req := httptest.NewRequest(http.MethodPut, "/templates/manufacturing", body)
	rec := httptest.NewRecorder()
	templatesRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	ms.AssertExpectations(t)
}

func TestPutTemplateRejectsBlankNames(t *testing.T) {
	ms := new(MockStore)
	h := NewTemplatesHandler(ms)

	body := bytes.NewBufferString(`{"categories":[{"name":"","dimensions":["Vision"]}]}`)
	req := httptest.NewRequest(http.MethodPut, "/templates/manufacturing", body)
	rec := httptest.NewRecorder()
	templatesRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ms.AssertNotCalled(t, "ReplaceTemplate", mock.Anything, mock.Anything, mock.Anything)
}
