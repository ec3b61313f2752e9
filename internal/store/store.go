package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/compass-assess/compass/internal/scoring"
)

// ErrSchemeNotFound signals a weighting-scheme reference that does not
// resolve. A dangling reference is a configuration error and must be
// surfaced to the caller, never silently downgraded to the no-scheme
// fallback.
var ErrSchemeNotFound = errors.New("weighting scheme not found")

// ErrAssessmentNotFound signals an assessment id that does not resolve.
var ErrAssessmentNotFound = errors.New("assessment not found")

// Assessment is one organization's self-assessment. OverallScore and
// CalculationUsed are a denormalized snapshot of the last computation;
// they are overwritten atomically with every score-set or scheme change
// and exist only for cheap list display.
type Assessment struct {
	ID         uuid.UUID  `json:"id"`
	Company    string     `json:"company"`
	Department string     `json:"department,omitempty"`
	Sector     string     `json:"sector"`
	SchemeID   *uuid.UUID `json:"scheme_id,omitempty"`

	OverallScore    *float64 `json:"overall_score"`
	CalculationUsed string   `json:"calculation_used"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AssessmentFilter struct {
	Company string
	Sector  string
	Limit   int
	Offset  int
}

// Snapshot is the cached pair persisted on the assessment row.
type Snapshot struct {
	OverallScore    *float64
	CalculationUsed scoring.Calculation
}

// WeightingScheme is a named weight configuration. The weight tree is
// loaded fully per read (scheme, category weights, dimension weights)
// and handed to the engine as an immutable value.
type WeightingScheme struct {
	ID              uuid.UUID                `json:"id"`
	Name            string                   `json:"name"`
	IsDefault       bool                     `json:"is_default"`
	CategoryWeights []scoring.CategoryWeight `json:"category_weights"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// Tree returns the scheme as the engine's value type.
func (s *WeightingScheme) Tree() *scoring.Scheme {
	if s == nil {
		return nil
	}
	return &scoring.Scheme{
		ID:              s.ID,
		Name:            s.Name,
		CategoryWeights: s.CategoryWeights,
	}
}

// TemplateCategoryInput is the write shape for configuring one category
// of a sector's template.
type TemplateCategoryInput struct {
	Name       string   `json:"name"`
	Dimensions []string `json:"dimensions"`
}

// AssessmentStats is the admin summary view.
type AssessmentStats struct {
	Total           int      `json:"total"`
	WithScores      int      `json:"with_scores"`
	Weighted        int      `json:"weighted"`
	RawAverage      int      `json:"raw_average"`
	AvgOverallScore *float64 `json:"avg_overall_score,omitempty"`
}

type Store interface {
	CreateAssessment(ctx context.Context, a *Assessment) error
	GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error)
	ListAssessments(ctx context.Context, filter AssessmentFilter) ([]*Assessment, error)

	// ReplaceScores replaces the assessment's whole score set,
	// persists the effective scheme reference, and overwrites the
	// snapshot in one transaction. Whole-set replacement gives
	// concurrent autosaves last-write-wins semantics; partial merges
	// are never performed.
	ReplaceScores(ctx context.Context, assessmentID uuid.UUID, schemeID *uuid.UUID, scores []scoring.Score, snap Snapshot) error
	GetScores(ctx context.Context, assessmentID uuid.UUID) ([]scoring.Score, error)

	// SetAssessmentScheme changes (or clears) the scheme reference and
	// overwrites the snapshot in the same transaction.
	SetAssessmentScheme(ctx context.Context, assessmentID uuid.UUID, schemeID *uuid.UUID, snap Snapshot) error

	// GetTemplate loads the categories and dimensions configured for a
	// sector as one immutable template value.
	GetTemplate(ctx context.Context, sector string) (scoring.Template, error)

	// ReplaceTemplate replaces a sector's whole category/dimension
	// configuration in one transaction. Scores attached to removed
	// dimensions are cascade-deleted.
	ReplaceTemplate(ctx context.Context, sector string, categories []TemplateCategoryInput) (scoring.Template, error)

	CreateScheme(ctx context.Context, s *WeightingScheme) error
	GetScheme(ctx context.Context, id uuid.UUID) (*WeightingScheme, error)
	ListSchemes(ctx context.Context) ([]*WeightingScheme, error)
	DeleteScheme(ctx context.Context, id uuid.UUID) error
	SetDefaultScheme(ctx context.Context, id uuid.UUID) error

	GetStats(ctx context.Context) (*AssessmentStats, error)
}
