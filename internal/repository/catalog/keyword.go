package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mibarrio/buscador/internal/domain"
)

// CategoriesForKeywords resolves the categories whose dictionary keywords
// substring-match any of the given patterns ("%hambre%" hits the keyword
// "hambre"). The same keyword may map to several categories, so all of them
// come back. Lookup is case-insensitive.
func (r *Repository) CategoriesForKeywords(ctx context.Context, patterns []string, limit int) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT c.id, c.name
		FROM keywords k
		JOIN categories c ON c.id = k.category_id
		WHERE k.keyword ILIKE ANY($1)
		LIMIT $2`,
		patterns, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("categories for keywords: %w", err)
	}
	return scanCategories(rows)
}

// KeywordsByCategory loads the whole dictionary grouped by category, used by
// the backfill to enrich embedding texts with category vocabulary.
func (r *Repository) KeywordsByCategory(ctx context.Context) (map[uuid.UUID][]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT k.category_id, k.keyword
		FROM keywords k
		ORDER BY k.category_id, k.keyword`,
	)
	if err != nil {
		return nil, fmt.Errorf("keywords by category: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]string)
	for rows.Next() {
		var (
			cid  pgtype.UUID
			word string
		)
		if err := rows.Scan(&cid, &word); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		id := uuidFromPg(cid)
		out[id] = append(out[id], word)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("keyword rows: %w", err)
	}
	return out, nil
}
