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

// BusinessesMissingEmbedding lists businesses without an embedding, joined
// with their category name for enriched-text construction.
func (r *Repository) BusinessesMissingEmbedding(ctx context.Context, limit int) ([]BusinessRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.id, b.name, b.category_id, coalesce(c.name, ''), coalesce(b.address, ''), coalesce(b.phone, '')
		FROM businesses b
		LEFT JOIN categories c ON c.id = b.category_id
		WHERE b.embedding IS NULL
		ORDER BY b.name
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("businesses missing embedding: %w", err)
	}
	defer rows.Close()

	var out []BusinessRow
	for rows.Next() {
		var (
			row BusinessRow
			id  pgtype.UUID
			cid pgtype.UUID
		)
		if err := rows.Scan(&id, &row.Name, &cid, &row.CategoryName, &row.Address, &row.Phone); err != nil {
			return nil, fmt.Errorf("scan business row: %w", err)
		}
		row.ID = uuidFromPg(id)
		row.CategoryID = uuidPtrFromPg(cid)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("business rows: %w", err)
	}
	return out, nil
}

// ProductsMissingEmbedding lists products without an embedding, joined with
// their owning business and its category name.
func (r *Repository) ProductsMissingEmbedding(ctx context.Context, limit int) ([]ProductRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.title, coalesce(p.description, ''), b.name, coalesce(c.name, '')
		FROM products p
		JOIN businesses b ON b.id = p.business_id
		LEFT JOIN categories c ON c.id = b.category_id
		WHERE p.embedding IS NULL
		ORDER BY p.title
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("products missing embedding: %w", err)
	}
	defer rows.Close()

	var out []ProductRow
	for rows.Next() {
		var (
			row ProductRow
			id  pgtype.UUID
		)
		if err := rows.Scan(&id, &row.Title, &row.Description, &row.BusinessName, &row.CategoryName); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		row.ID = uuidFromPg(id)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("product rows: %w", err)
	}
	return out, nil
}

// CategoriesMissingEmbedding lists categories without an embedding.
func (r *Repository) CategoriesMissingEmbedding(ctx context.Context, limit int) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name
		FROM categories c
		WHERE c.embedding IS NULL
		ORDER BY c.name
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("categories missing embedding: %w", err)
	}
	return scanCategories(rows)
}

// UpdateBusinessEmbedding stores a freshly generated business embedding.
func (r *Repository) UpdateBusinessEmbedding(ctx context.Context, id uuid.UUID, vec []float32) error {
	return r.updateEmbedding(ctx, "businesses", id, vec)
}

// UpdateProductEmbedding stores a freshly generated product embedding.
func (r *Repository) UpdateProductEmbedding(ctx context.Context, id uuid.UUID, vec []float32) error {
	return r.updateEmbedding(ctx, "products", id, vec)
}

// UpdateCategoryEmbedding stores a freshly generated category embedding.
func (r *Repository) UpdateCategoryEmbedding(ctx context.Context, id uuid.UUID, vec []float32) error {
	return r.updateEmbedding(ctx, "categories", id, vec)
}

func (r *Repository) updateEmbedding(ctx context.Context, table string, id uuid.UUID, vec []float32) error {
	tag, err := r.db.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET embedding = $1 WHERE id = $2`, pgx.Identifier{table}.Sanitize()),
		pgvector.NewVector(vec), pgFromUUID(id),
	)
	if err != nil {
		return fmt.Errorf("update %s embedding: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
