package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/compass-assess/compass/internal/events"
	"github.com/compass-assess/compass/internal/scoring"
	"github.com/compass-assess/compass/internal/store"
)

type SchemesHandler struct {
	store  store.Store
	events events.Client
}

func NewSchemesHandler(s store.Store, ev events.Client) *SchemesHandler {
	return &SchemesHandler{store: s, events: ev}
}

type DimensionWeightRequest struct {
	DimensionID string  `json:"dimension_id"`
	Weight      float64 `json:"weight"`
}

type CategoryWeightRequest struct {
	CategoryID       string                   `json:"category_id"`
	Weight           float64                  `json:"weight"`
	DimensionWeights []DimensionWeightRequest `json:"dimension_weights,omitempty"`
}

type CreateSchemeRequest struct {
	Name            string                  `json:"name"`
	IsDefault       bool                    `json:"is_default,omitempty"`
	CategoryWeights []CategoryWeightRequest `json:"category_weights"`
}

func (h *SchemesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSchemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}

	scheme := &store.WeightingScheme{
		Name:      req.Name,
		IsDefault: req.IsDefault,
	}
	for _, cw := range req.CategoryWeights {
		catID, err := uuid.Parse(cw.CategoryID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id: " + cw.CategoryID})
			return
		}
		if cw.Weight < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weights must be non-negative"})
			return
		}
		entry := scoring.CategoryWeight{CategoryID: catID, Weight: cw.Weight}
		for _, dw := range cw.DimensionWeights {
			dimID, err := uuid.Parse(dw.DimensionID)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid dimension_id: " + dw.DimensionID})
				return
			}
			if dw.Weight < 0 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weights must be non-negative"})
				return
			}
			entry.DimensionWeights = append(entry.DimensionWeights, scoring.DimensionWeight{
				DimensionID: dimID,
				Weight:      dw.Weight,
			})
		}
		scheme.CategoryWeights = append(scheme.CategoryWeights, entry)
	}

	if err := h.store.CreateScheme(r.Context(), scheme); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectSchemeCreated(scheme.ID.String()), events.SchemeEvent{
			SchemeID:  scheme.ID.String(),
			Name:      scheme.Name,
			IsDefault: scheme.IsDefault,
		})
	}

	writeJSON(w, http.StatusCreated, scheme)
}

func (h *SchemesHandler) List(w http.ResponseWriter, r *http.Request) {
	schemes, err := h.store.ListSchemes(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if schemes == nil {
		schemes = []*store.WeightingScheme{}
	}
	writeJSON(w, http.StatusOK, schemes)
}

func (h *SchemesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid scheme id"})
		return
	}

	scheme, err := h.store.GetScheme(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrSchemeNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "scheme not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, scheme)
}

func (h *SchemesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid scheme id"})
		return
	}

	if err := h.store.DeleteScheme(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrSchemeNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "scheme not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectSchemeDeleted(id.String()), events.SchemeEvent{SchemeID: id.String()})
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *SchemesHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid scheme id"})
		return
	}

	if err := h.store.SetDefaultScheme(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrSchemeNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "scheme not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectSchemeDefault(id.String()), events.SchemeEvent{SchemeID: id.String(), IsDefault: true})
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "default set"})
}
