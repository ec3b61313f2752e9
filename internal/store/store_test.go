package store

import (
	"testing"

	"github.com/google/uuid"

	"github.com/compass-assess/compass/internal/scoring"
)

func TestSchemeTree(t *testing.T) {
	var nilScheme *WeightingScheme
	if nilScheme.Tree() != nil {
		t.Error("expected nil tree for nil scheme")
	}

	catID := uuid.New()
	s := &WeightingScheme{
		ID:   uuid.New(),
		Name: "Balanced",
		CategoryWeights: []scoring.CategoryWeight{
			{CategoryID: catID, Weight: 0.5},
		},
	}
	tree := s.Tree()
	if tree == nil {
		t.Fatal("expected tree")
	}
	if tree.ID != s.ID || tree.Name != "Balanced" {
		t.Errorf("tree metadata mismatch: %v %s", tree.ID, tree.Name)
	}
	if len(tree.CategoryWeights) != 1 || tree.CategoryWeights[0].CategoryID != catID {
		t.Error("expected category weights carried over")
	}
}

func TestAssessmentFilterDefaults(t *testing.T) {
	f := AssessmentFilter{}
	if f.Limit != 0 {
		t.Errorf("expected 0 default limit, got %d", f.Limit)
	}
	if f.Company != "" || f.Sector != "" {
		t.Error("expected empty filters")
	}
}

func TestSnapshotCalculationTags(t *testing.T) {
	tags := []scoring.Calculation{scoring.CalcWeighted, scoring.CalcRawAverage, scoring.CalcNoScores}
	expected := []string{"weighted", "raw_average", "no_scores"}
	for i, c := range tags {
		if string(c) != expected[i] {
			t.Errorf("expected %s, got %s", expected[i], c)
		}
	}
}
