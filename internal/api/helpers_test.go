package api

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/compass-assess/compass/internal/config"
	"github.com/compass-assess/compass/internal/scoring"
	"github.com/compass-assess/compass/internal/store"
)

// MockStore implements store.Store for handler tests.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateAssessment(ctx context.Context, a *store.Assessment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockStore) GetAssessment(ctx context.Context, id uuid.UUID) (*store.Assessment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Assessment), args.Error(1)
}

func (m *MockStore) ListAssessments(ctx context.Context, filter store.AssessmentFilter) ([]*store.Assessment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Assessment), args.Error(1)
}

func (m *MockStore) ReplaceScores(ctx context.Context, assessmentID uuid.UUID, schemeID *uuid.UUID, scores []scoring.Score, snap store.Snapshot) error {
	args := m.Called(ctx, assessmentID, schemeID, scores, snap)
	return args.Error(0)
}

func (m *MockStore) GetScores(ctx context.Context, assessmentID uuid.UUID) ([]scoring.Score, error) {
	args := m.Called(ctx, assessmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scoring.Score), args.Error(1)
}

func (m *MockStore) SetAssessmentScheme(ctx context.Context, assessmentID uuid.UUID, schemeID *uuid.UUID, snap store.Snapshot) error {
	args := m.Called(ctx, assessmentID, schemeID, snap)
	return args.Error(0)
}

func (m *MockStore) GetTemplate(ctx context.Context, sector string) (scoring.Template, error) {
	args := m.Called(ctx, sector)
	return args.Get(0).(scoring.Template), args.Error(1)
}

func (m *MockStore) ReplaceTemplate(ctx context.Context, sector string, categories []store.TemplateCategoryInput) (scoring.Template, error) {
	args := m.Called(ctx, sector, categories)
	return args.Get(0).(scoring.Template), args.Error(1)
}

func (m *MockStore) CreateScheme(ctx context.Context, s *store.WeightingScheme) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStore) GetScheme(ctx context.Context, id uuid.UUID) (*store.WeightingScheme, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.WeightingScheme), args.Error(1)
}

func (m *MockStore) ListSchemes(ctx context.Context) ([]*store.WeightingScheme, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.WeightingScheme), args.Error(1)
}

func (m *MockStore) DeleteScheme(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) SetDefaultScheme(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) GetStats(ctx context.Context) (*store.AssessmentStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.AssessmentStats), args.Error(1)
}

// fakeEvents records publishes for assertions.
type fakeEvents struct {
	mu       sync.Mutex
	subjects []string
}

func (f *fakeEvents) Publish(subject string, data interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	return nil
}

func (f *fakeEvents) Close() {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{RateLimitPerMinute: 1000, DefaultPageSize: 100},
	}
}
