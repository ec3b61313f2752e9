package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/compass-assess/compass/internal/events"
	"github.com/compass-assess/compass/internal/scoring"
	"github.com/compass-assess/compass/internal/store"
)

type AssessmentsHandler struct {
	store    store.Store
	events   events.Client
	pageSize int
}

func NewAssessmentsHandler(s store.Store, ev events.Client, pageSize int) *AssessmentsHandler {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &AssessmentsHandler{store: s, events: ev, pageSize: pageSize}
}

type CreateAssessmentRequest struct {
	Company    string `json:"company"`
	Department string `json:"department,omitempty"`
	Sector     string `json:"sector"`
	SchemeID   string `json:"scheme_id,omitempty"`
}

func (h *AssessmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Company == "" || req.Sector == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "company and sector required"})
		return
	}

	a := &store.Assessment{
		Company:    req.Company,
		Department: req.Department,
		Sector:     req.Sector,
	}
	if req.SchemeID != "" {
		sid, err := uuid.Parse(req.SchemeID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid scheme_id"})
			return
		}
		// Resolve up front: a dangling scheme reference is a
		// configuration error, not a normal no-scheme state.
		if _, err := h.store.GetScheme(r.Context(), sid); err != nil {
			if errors.Is(err, store.ErrSchemeNotFound) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "selected weighting scheme is unavailable"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		a.SchemeID = &sid
	}

	if err := h.store.CreateAssessment(r.Context(), a); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectAssessmentCreated(a.ID.String()), events.AssessmentCreatedEvent{
			AssessmentID: a.ID.String(),
			Company:      a.Company,
			Sector:       a.Sector,
		})
	}

	writeJSON(w, http.StatusCreated, a)
}

// AssessmentSummary is the list-view row: the stored snapshot plus the
// live unweighted mean of answered levels, computed through the same
// engine helper every other consumer uses.
type AssessmentSummary struct {
	*store.Assessment
	RawAverage *float64 `json:"raw_average"`
}

func (h *AssessmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.AssessmentFilter{
		Company: r.URL.Query().Get("company"),
		Sector:  r.URL.Query().Get("sector"),
		Limit:   h.pageSize,
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Offset = n
		}
	}

	assessments, err := h.store.ListAssessments(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	summaries := make([]AssessmentSummary, 0, len(assessments))
	for _, a := range assessments {
		scores, err := h.store.GetScores(r.Context(), a.ID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		summaries = append(summaries, AssessmentSummary{
			Assessment: a,
			RawAverage: scoring.RawAverage(scores),
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *AssessmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, a)
}

type ScoreEntry struct {
	DimensionID string `json:"dimension_id"`
	Level       int    `json:"level"`
}

type ReplaceScoresRequest struct {
	Scores []ScoreEntry `json:"scores"`
	// Optional scheme change carried with the write; empty string
	// clears the reference, absence keeps the current one.
	SchemeID *string `json:"scheme_id,omitempty"`
}

// ReplaceScores handles PUT /api/v1/assessments/{id}/scores.
//
// The request replaces the whole score set; concurrent autosaves
// resolve last-write-wins on the full set. The canonical result is
// computed here and persisted as the snapshot in the same transaction
// as the score rows.
func (h *AssessmentsHandler) ReplaceScores(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid assessment id"})
		return
	}

	var req ReplaceScoresRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
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

	scores := make([]scoring.Score, 0, len(req.Scores))
	for _, e := range req.Scores {
		did, err := uuid.Parse(e.DimensionID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid dimension_id: " + e.DimensionID})
			return
		}
		if e.Level < 1 || e.Level > scoring.MaxLevel {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "level must be an integer between 1 and 5"})
			return
		}
		scores = append(scores, scoring.Score{DimensionID: did, Level: e.Level})
	}

	schemeID := a.SchemeID
	if req.SchemeID != nil {
		if *req.SchemeID == "" {
			schemeID = nil
		} else {
			sid, err := uuid.Parse(*req.SchemeID)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid scheme_id"})
				return
			}
			schemeID = &sid
		}
	}

	scheme, ok := h.resolveScheme(w, r, schemeID)
	if !ok {
		return
	}

	template, err := h.store.GetTemplate(r.Context(), a.Sector)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	result := computeScore(template, scores, scheme.Tree())
	snap := store.Snapshot{OverallScore: result.OverallScore, CalculationUsed: result.CalculationUsed}

	if err := h.store.ReplaceScores(r.Context(), id, schemeID, scores, snap); err != nil {
		if errors.Is(err, store.ErrAssessmentNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "assessment not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectAssessmentScored(id.String()), events.AssessmentScoredEvent{
			AssessmentID:    id.String(),
			OverallScore:    result.OverallScore,
			CalculationUsed: string(result.CalculationUsed),
			ScoreCount:      len(scores),
		})
	}

	writeJSON(w, http.StatusOK, result)
}

type SetSchemeRequest struct {
	// null clears the reference; a UUID assigns it.
	SchemeID *string `json:"scheme_id"`
}

// SetScheme handles PATCH /api/v1/assessments/{id}/scheme. The cached
// snapshot is recomputed against the current score set and overwritten
// together with the reference change.
func (h *AssessmentsHandler) SetScheme(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid assessment id"})
		return
	}

	var req SetSchemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
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

	var schemeID *uuid.UUID
	if req.SchemeID != nil && *req.SchemeID != "" {
		sid, err := uuid.Parse(*req.SchemeID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid scheme_id"})
			return
		}
		schemeID = &sid
	}

	scheme, ok := h.resolveScheme(w, r, schemeID)
	if !ok {
		return
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
	snap := store.Snapshot{OverallScore: result.OverallScore, CalculationUsed: result.CalculationUsed}

	if err := h.store.SetAssessmentScheme(r.Context(), id, schemeID, snap); err != nil {
		if errors.Is(err, store.ErrAssessmentNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "assessment not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		ev := events.SchemeChangedEvent{
			AssessmentID:    id.String(),
			OverallScore:    result.OverallScore,
			CalculationUsed: string(result.CalculationUsed),
		}
		if schemeID != nil {
			ev.SchemeID = schemeID.String()
		}
		_ = h.events.Publish(events.SubjectAssessmentSchemeChanged(id.String()), ev)
	}

	writeJSON(w, http.StatusOK, result)
}

// resolveScheme loads the referenced scheme tree, writing the error
// response itself when resolution fails. A nil reference resolves to a
// nil scheme, the normal no-scheme state.
func (h *AssessmentsHandler) resolveScheme(w http.ResponseWriter, r *http.Request, schemeID *uuid.UUID) (*store.WeightingScheme, bool) {
	if schemeID == nil {
		return nil, true
	}
	scheme, err := h.store.GetScheme(r.Context(), *schemeID)
	if err != nil {
		if errors.Is(err, store.ErrSchemeNotFound) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "selected weighting scheme is unavailable"})
			return nil, false
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	return scheme, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
