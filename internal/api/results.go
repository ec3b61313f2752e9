package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/compass-assess/compass/internal/scoring"
	"github.com/compass-assess/compass/internal/store"
)

type ResultsHandler struct {
	store store.Store
}

func NewResultsHandler(s store.Store) *ResultsHandler {
	return &ResultsHandler{store: s}
}

// Get handles GET /api/v1/assessments/{id}/results.
//
// Results are recomputed from the current score set, template, and
// scheme on every read; the snapshot on the assessment row is a display
// cache, never the source of truth here. An optional ?scheme_id=
// overrides the assigned scheme for a what-if view, and ?scale=percent
// re-expresses the canonical 0-5 result on the 0-100 display scale.
func (h *ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid assessment id"})
		return
	}

	a, err := h.store.GetAssessment(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrAssessmentNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "assessment not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	schemeID := a.SchemeID
	if v := r.URL.Query().Get("scheme_id"); v != "" {
		sid, err := uuid.Parse(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid scheme_id"})
			return
		}
		schemeID = &sid
	}

	var scheme *store.WeightingScheme
	if schemeID != nil {
		scheme, err = h.store.GetScheme(r.Context(), *schemeID)
		if err != nil {
			if errors.Is(err, store.ErrSchemeNotFound) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "selected weighting scheme is unavailable"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}

	scores, err := h.store.GetScores(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	template, err := h.store.GetTemplate(r.Context(), a.Sector)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	result := computeScore(template, scores, scheme.Tree())
	if r.URL.Query().Get("scale") == "percent" {
		result = scoring.PercentView(result)
	}

	writeJSON(w, http.StatusOK, result)
}
