package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/mibarrio/buscador/internal/domain"
)

const businessColumns = `b.id, b.name, b.category_id, coalesce(b.address, ''), coalesce(b.phone, '')`

// BusinessesByName finds businesses whose name matches any of the ILIKE
// patterns (the caller supplies the original term and its naive singular).
func (r *Repository) BusinessesByName(ctx context.Context, patterns []string, limit int) ([]domain.Business, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+businessColumns+`
		FROM businesses b
		WHERE b.name ILIKE ANY($1)
		LIMIT $2`,
		patterns, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("businesses by name: %w", err)
	}
	return scanBusinesses(rows)
}

// BusinessesByNameFuzzy widens the name search via full-text and trigram
// matching, covering minor typos without the embedding pipeline.
func (r *Repository) BusinessesByNameFuzzy(ctx context.Context, term string, limit int) ([]domain.Business, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+businessColumns+`
		FROM businesses b
		WHERE to_tsvector('spanish', b.name) @@ websearch_to_tsquery('spanish', $1)
		   OR b.name % $1
		ORDER BY similarity(b.name, $1) DESC
		LIMIT $2`,
		term, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("businesses fuzzy: %w", err)
	}
	return scanBusinesses(rows)
}

// BusinessesByCategories lists businesses belonging to any of the given
// categories (set-membership filter).
func (r *Repository) BusinessesByCategories(ctx context.Context, categoryIDs []uuid.UUID, limit int) ([]domain.Business, error) {
	ids := make([]pgtype.UUID, len(categoryIDs))
	for i, id := range categoryIDs {
		ids[i] = pgFromUUID(id)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+businessColumns+`
		FROM businesses b
		WHERE b.category_id = ANY($1)
		ORDER BY b.name
		LIMIT $2`,
		ids, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("businesses by categories: %w", err)
	}
	return scanBusinesses(rows)
}

// SemanticBusinesses runs a nearest-neighbor lookup over business embeddings.
// Similarity is cosine-based in [0,1]; rows below threshold are excluded.
func (r *Repository) SemanticBusinesses(ctx context.Context, vec []float32, threshold float64, limit int) ([]domain.Candidate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+businessColumns+`, 1 - (b.embedding <=> $1) AS similarity
		FROM businesses b
		WHERE b.embedding IS NOT NULL
		  AND 1 - (b.embedding <=> $1) >= $2
		ORDER BY b.embedding <=> $1
		LIMIT $3`,
		pgvector.NewVector(vec), threshold, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("semantic businesses: %w", err)
	}
	defer rows.Close()

	var out []domain.Candidate
	for rows.Next() {
		var (
			b   domain.Business
			cid pgtype.UUID
			id  pgtype.UUID
			sim float64
		)
		if err := rows.Scan(&id, &b.Name, &cid, &b.Address, &b.Phone, &sim); err != nil {
			return nil, fmt.Errorf("scan semantic business: %w", err)
		}
		b.ID = uuidFromPg(id)
		b.CategoryID = uuidPtrFromPg(cid)

		c := domain.BusinessCandidate(b, domain.ProvenanceSemantic)
		c.Similarity = sim
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("semantic businesses rows: %w", err)
	}
	return out, nil
}

func scanBusinesses(rows pgx.Rows) ([]domain.Business, error) {
	defer rows.Close()

	var out []domain.Business
	for rows.Next() {
		var (
			b   domain.Business
			id  pgtype.UUID
			cid pgtype.UUID
		)
		if err := rows.Scan(&id, &b.Name, &cid, &b.Address, &b.Phone); err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		b.ID = uuidFromPg(id)
		b.CategoryID = uuidPtrFromPg(cid)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("business rows: %w", err)
	}
	return out, nil
}
