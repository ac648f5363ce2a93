package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/mibarrio/buscador/internal/domain"
)

// CategoriesByName finds categories whose name matches any of the ILIKE
// patterns.
func (r *Repository) CategoriesByName(ctx context.Context, patterns []string, limit int) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name
		FROM categories c
		WHERE c.name ILIKE ANY($1)
		LIMIT $2`,
		patterns, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("categories by name: %w", err)
	}
	return scanCategories(rows)
}

// CategoriesByNameFuzzy widens the category name search via full-text and
// trigram matching.
func (r *Repository) CategoriesByNameFuzzy(ctx context.Context, term string, limit int) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name
		FROM categories c
		WHERE to_tsvector('spanish', c.name) @@ websearch_to_tsquery('spanish', $1)
		   OR c.name % $1
		ORDER BY similarity(c.name, $1) DESC
		LIMIT $2`,
		term, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("categories fuzzy: %w", err)
	}
	return scanCategories(rows)
}

// SemanticCategories runs a nearest-neighbor lookup over category embeddings.
// Returned candidates carry the cosine similarity for confidence scaling.
func (r *Repository) SemanticCategories(ctx context.Context, vec []float32, threshold float64, limit int) ([]domain.Candidate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name, 1 - (c.embedding <=> $1) AS similarity
		FROM categories c
		WHERE c.embedding IS NOT NULL
		  AND 1 - (c.embedding <=> $1) >= $2
		ORDER BY c.embedding <=> $1
		LIMIT $3`,
		pgvector.NewVector(vec), threshold, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("semantic categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Candidate
	for rows.Next() {
		var (
			c   domain.Category
			id  pgtype.UUID
			sim float64
		)
		if err := rows.Scan(&id, &c.Name, &sim); err != nil {
			return nil, fmt.Errorf("scan semantic category: %w", err)
		}
		c.ID = uuidFromPg(id)

		cand := domain.CategoryCandidateOf(c, domain.ProvenanceSemantic)
		cand.Similarity = sim
		out = append(out, cand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("semantic categories rows: %w", err)
	}
	return out, nil
}

// CategoryByID loads a single category.
func (r *Repository) CategoryByID(ctx context.Context, id uuid.UUID) (domain.Category, error) {
	var (
		c   domain.Category
		pid pgtype.UUID
	)
	err := r.db.QueryRow(ctx, `
		SELECT c.id, c.name
		FROM categories c
		WHERE c.id = $1`,
		pgFromUUID(id),
	).Scan(&pid, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Category{}, domain.ErrNotFound
		}
		return domain.Category{}, fmt.Errorf("category by id: %w", err)
	}
	c.ID = uuidFromPg(pid)
	return c, nil
}

func scanCategories(rows pgx.Rows) ([]domain.Category, error) {
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var (
			c  domain.Category
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.ID = uuidFromPg(id)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category rows: %w", err)
	}
	return out, nil
}
