package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/compass-assess/compass/internal/scoring"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const assessmentColumns = `id, company, department, sector, scheme_id,
	overall_score, calculation_used, created_at, updated_at`

func (s *PostgresStore) CreateAssessment(ctx context.Context, a *Assessment) error {
	if a.CalculationUsed == "" {
		a.CalculationUsed = string(scoring.CalcNoScores)
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO assessments (company, department, sector, scheme_id, calculation_used)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		a.Company, a.Department, a.Sector, a.SchemeID, a.CalculationUsed,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (s *PostgresStore) GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	a := &Assessment{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+assessmentColumns+`
		FROM assessments WHERE id = $1`, id,
	).Scan(
		&a.ID, &a.Company, &a.Department, &a.Sector, &a.SchemeID,
		&a.OverallScore, &a.CalculationUsed, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *PostgresStore) ListAssessments(ctx context.Context, filter AssessmentFilter) ([]*Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Company != "" {
		n++
		query += fmt.Sprintf(" AND company = $%d", n)
		args = append(args, filter.Company)
	}
	if filter.Sector != "" {
		n++
		query += fmt.Sprintf(" AND sector = $%d", n)
		args = append(args, filter.Sector)
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Assessment
	for rows.Next() {
		a := &Assessment{}
		if err := rows.Scan(
			&a.ID, &a.Company, &a.Department, &a.Sector, &a.SchemeID,
			&a.OverallScore, &a.CalculationUsed, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ReplaceScores deletes the prior score set, inserts the new one, and
// overwrites the scheme reference and snapshot, all in a single
// transaction so no reader can observe a half-replaced set or a
// snapshot computed against a mismatched set.
func (s *PostgresStore) ReplaceScores(ctx context.Context, assessmentID uuid.UUID, schemeID *uuid.UUID, scores []scoring.Score, snap Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM scores WHERE assessment_id = $1`, assessmentID); err != nil {
		return fmt.Errorf("delete scores: %w", err)
	}
	for _, sc := range scores {
		if _, err := tx.Exec(ctx, `
			INSERT INTO scores (assessment_id, dimension_id, level)
			VALUES ($1, $2, $3)`,
			assessmentID, sc.DimensionID, sc.Level,
		); err != nil {
			return fmt.Errorf("insert score: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE assessments
		SET scheme_id = $2, overall_score = $3, calculation_used = $4, updated_at = now()
		WHERE id = $1`,
		assessmentID, schemeID, snap.OverallScore, string(snap.CalculationUsed),
	)
	if err != nil {
		return fmt.Errorf("update snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAssessmentNotFound
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) GetScores(ctx context.Context, assessmentID uuid.UUID) ([]scoring.Score, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT dimension_id, level FROM scores
		WHERE assessment_id = $1`, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []scoring.Score
	for rows.Next() {
		var sc scoring.Score
		if err := rows.Scan(&sc.DimensionID, &sc.Level); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SetAssessmentScheme(ctx context.Context, assessmentID uuid.UUID, schemeID *uuid.UUID, snap Snapshot) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE assessments
		SET scheme_id = $2, overall_score = $3, calculation_used = $4, updated_at = now()
		WHERE id = $1`,
		assessmentID, schemeID, snap.OverallScore, string(snap.CalculationUsed),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAssessmentNotFound
	}
	return nil
}

func (s *PostgresStore) GetTemplate(ctx context.Context, sector string) (scoring.Template, error) {
	var tpl scoring.Template

	rows, err := s.pool.Query(ctx, `
		SELECT id, name FROM categories
		WHERE sector = $1
		ORDER BY position, name`, sector)
	if err != nil {
		return tpl, err
	}
	defer rows.Close()

	index := map[uuid.UUID]int{}
	for rows.Next() {
		var tc scoring.TemplateCategory
		if err := rows.Scan(&tc.CategoryID, &tc.Name); err != nil {
			return tpl, err
		}
		index[tc.CategoryID] = len(tpl.Categories)
		tpl.Categories = append(tpl.Categories, tc)
	}
	if err := rows.Err(); err != nil {
		return tpl, err
	}

	dimRows, err := s.pool.Query(ctx, `
		SELECT d.id, d.category_id FROM dimensions d
		JOIN categories c ON c.id = d.category_id
		WHERE c.sector = $1
		ORDER BY d.position, d.name`, sector)
	if err != nil {
		return tpl, err
	}
	defer dimRows.Close()

	for dimRows.Next() {
		var dimID, catID uuid.UUID
		if err := dimRows.Scan(&dimID, &catID); err != nil {
			return tpl, err
		}
		if i, ok := index[catID]; ok {
			tpl.Categories[i].DimensionIDs = append(tpl.Categories[i].DimensionIDs, dimID)
		}
	}
	return tpl, dimRows.Err()
}

func (s *PostgresStore) ReplaceTemplate(ctx context.Context, sector string, categories []TemplateCategoryInput) (scoring.Template, error) {
	var tpl scoring.Template

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return tpl, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE sector = $1`, sector); err != nil {
		return tpl, fmt.Errorf("delete categories: %w", err)
	}

	for pos, cat := range categories {
		tc := scoring.TemplateCategory{Name: cat.Name}
		if err := tx.QueryRow(ctx, `
			INSERT INTO categories (sector, name, position)
			VALUES ($1, $2, $3)
			RETURNING id`,
			sector, cat.Name, pos,
		).Scan(&tc.CategoryID); err != nil {
			return tpl, fmt.Errorf("insert category: %w", err)
		}
		for dpos, dim := range cat.Dimensions {
			var dimID uuid.UUID
			if err := tx.QueryRow(ctx, `
				INSERT INTO dimensions (category_id, name, position)
				VALUES ($1, $2, $3)
				RETURNING id`,
				tc.CategoryID, dim, dpos,
			).Scan(&dimID); err != nil {
				return tpl, fmt.Errorf("insert dimension: %w", err)
			}
			tc.DimensionIDs = append(tc.DimensionIDs, dimID)
		}
		tpl.Categories = append(tpl.Categories, tc)
	}

	if err := tx.Commit(ctx); err != nil {
		return tpl, err
	}
	return tpl, nil
}

func (s *PostgresStore) CreateScheme(ctx context.Context, scheme *WeightingScheme) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if scheme.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE weighting_schemes SET is_default = false WHERE is_default`); err != nil {
			return fmt.Errorf("clear default: %w", err)
		}
	}

	if err := tx.QueryRow(ctx, `
		INSERT INTO weighting_schemes (name, is_default)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`,
		scheme.Name, scheme.IsDefault,
	).Scan(&scheme.ID, &scheme.CreatedAt, &scheme.UpdatedAt); err != nil {
		return fmt.Errorf("insert scheme: %w", err)
	}

	for _, cw := range scheme.CategoryWeights {
		var cwID uuid.UUID
		if err := tx.QueryRow(ctx, `
			INSERT INTO category_weights (scheme_id, category_id, weight)
			VALUES ($1, $2, $3)
			RETURNING id`,
			scheme.ID, cw.CategoryID, cw.Weight,
		).Scan(&cwID); err != nil {
			return fmt.Errorf("insert category weight: %w", err)
		}
		for _, dw := range cw.DimensionWeights {
			if _, err := tx.Exec(ctx, `
				INSERT INTO dimension_weights (category_weight_id, dimension_id, weight)
				VALUES ($1, $2, $3)`,
				cwID, dw.DimensionID, dw.Weight,
			); err != nil {
				return fmt.Errorf("insert dimension weight: %w", err)
			}
		}
	}

	return tx.Commit(ctx)
}

// GetScheme loads the scheme and its whole weight tree in one pass.
// A missing id is ErrSchemeNotFound, which callers surface as a
// configuration error rather than falling back to no-scheme scoring.
func (s *PostgresStore) GetScheme(ctx context.Context, id uuid.UUID) (*WeightingScheme, error) {
	scheme := &WeightingScheme{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, is_default, created_at, updated_at
		FROM weighting_schemes WHERE id = $1`, id,
	).Scan(&scheme.ID, &scheme.Name, &scheme.IsDefault, &scheme.CreatedAt, &scheme.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSchemeNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT cw.category_id, cw.weight, dw.dimension_id, dw.weight
		FROM category_weights cw
		LEFT JOIN dimension_weights dw ON dw.category_weight_id = cw.id
		WHERE cw.scheme_id = $1
		ORDER BY cw.category_id, dw.dimension_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index := map[uuid.UUID]int{}
	for rows.Next() {
		var catID uuid.UUID
		var catWeight float64
		var dimID *uuid.UUID
		var dimWeight *float64
		if err := rows.Scan(&catID, &catWeight, &dimID, &dimWeight); err != nil {
			return nil, err
		}
		i, ok := index[catID]
		if !ok {
			i = len(scheme.CategoryWeights)
			index[catID] = i
			scheme.CategoryWeights = append(scheme.CategoryWeights, scoring.CategoryWeight{
				CategoryID: catID,
				Weight:     catWeight,
			})
		}
		if dimID != nil && dimWeight != nil {
			scheme.CategoryWeights[i].DimensionWeights = append(scheme.CategoryWeights[i].DimensionWeights,
				scoring.DimensionWeight{DimensionID: *dimID, Weight: *dimWeight})
		}
	}
	return scheme, rows.Err()
}

func (s *PostgresStore) ListSchemes(ctx context.Context) ([]*WeightingScheme, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, is_default, created_at, updated_at
		FROM weighting_schemes
		ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*WeightingScheme
	for rows.Next() {
		scheme := &WeightingScheme{}
		if err := rows.Scan(&scheme.ID, &scheme.Name, &scheme.IsDefault, &scheme.CreatedAt, &scheme.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, scheme)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteScheme(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM weighting_schemes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSchemeNotFound
	}
	return nil
}

func (s *PostgresStore) SetDefaultScheme(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE weighting_schemes SET is_default = false WHERE is_default`); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `UPDATE weighting_schemes SET is_default = true, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSchemeNotFound
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) GetStats(ctx context.Context) (*AssessmentStats, error) {
	stats := &AssessmentStats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE calculation_used != 'no_scores'),
			COUNT(*) FILTER (WHERE calculation_used = 'weighted'),
			COUNT(*) FILTER (WHERE calculation_used = 'raw_average'),
			AVG(overall_score)
		FROM assessments`,
	).Scan(&stats.Total, &stats.WithScores, &stats.Weighted, &stats.RawAverage, &stats.AvgOverallScore)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
