package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/compass-assess/compass/internal/store"
)

type TemplatesHandler struct {
	store store.Store
}

func NewTemplatesHandler(s store.Store) *TemplatesHandler {
	return &TemplatesHandler{store: s}
}

type ReplaceTemplateRequest struct {
	Categories []store.TemplateCategoryInput `json:"categories"`
}

// Put handles PUT /api/v1/templates/{sector} (admin). The sector's
// whole template is replaced; scores for removed dimensions are
// cascade-deleted with it.
func (h *TemplatesHandler) Put(w http.ResponseWriter, r *http.Request) {
	sector := chi.URLParam(r, "sector")
	if sector == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sector required"})
		return
	}

	var req ReplaceTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	for _, cat := range req.Categories {
		if cat.Name == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category name required"})
			return
		}
		for _, dim := range cat.Dimensions {
			if dim == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dimension name required"})
				return
			}
		}
	}

	template, err := h.store.ReplaceTemplate(r.Context(), sector, req.Categories)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, template)
}

// Get handles GET /api/v1/templates/{sector}. An unconfigured sector
// returns an empty template, not an error.
func (h *TemplatesHandler) Get(w http.ResponseWriter, r *http.Request) {
	sector := chi.URLParam(r, "sector")
	if sector == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sector required"})
		return
	}

	template, err := h.store.GetTemplate(r.Context(), sector)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, template)
}
