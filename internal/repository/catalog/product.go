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

const productColumns = `p.id, p.title, coalesce(p.description, ''), coalesce(p.price, 0), p.business_id,
		b.id, b.name, b.category_id, coalesce(b.address, ''), coalesce(b.phone, '')`

const productFrom = `FROM products p
		JOIN businesses b ON b.id = p.business_id`

// ProductsByText finds products whose title or description matches any of the
// ILIKE patterns. The owning business is joined so scoring can check category
// coherence without extra round trips.
func (r *Repository) ProductsByText(ctx context.Context, patterns []string, limit int) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		`+productFrom+`
		WHERE p.title ILIKE ANY($1) OR p.description ILIKE ANY($1)
		LIMIT $2`,
		patterns, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("products by text: %w", err)
	}
	return scanProducts(rows)
}

// ProductsByFullText widens the title search via Spanish full-text and trigram
// matching, recovering stems and typos the ILIKE tier misses.
func (r *Repository) ProductsByFullText(ctx context.Context, term string, limit int) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		`+productFrom+`
		WHERE to_tsvector('spanish', p.title || ' ' || coalesce(p.description, '')) @@ websearch_to_tsquery('spanish', $1)
		   OR p.title % $1
		ORDER BY similarity(p.title, $1) DESC
		LIMIT $2`,
		term, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("products full-text: %w", err)
	}
	return scanProducts(rows)
}

// ProductsByBusiness lists a business's products, used when the winning result
// is a business profile.
func (r *Repository) ProductsByBusiness(ctx context.Context, businessID uuid.UUID, limit int) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		`+productFrom+`
		WHERE p.business_id = $1
		ORDER BY p.title
		LIMIT $2`,
		pgFromUUID(businessID), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("products by business: %w", err)
	}
	return scanProducts(rows)
}

// FeaturedProductsByCategories picks products sold by businesses of the given
// categories, used to fill out a category-browse view.
func (r *Repository) FeaturedProductsByCategories(ctx context.Context, categoryIDs []uuid.UUID, limit int) ([]domain.Product, error) {
	ids := make([]pgtype.UUID, len(categoryIDs))
	for i, id := range categoryIDs {
		ids[i] = pgFromUUID(id)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		`+productFrom+`
		WHERE b.category_id = ANY($1)
		ORDER BY p.title
		LIMIT $2`,
		ids, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("featured products: %w", err)
	}
	return scanProducts(rows)
}

// CategoriesOfProductMatches resolves the categories owning businesses of
// products whose title matches the patterns. This is the enrichment path of
// keyword detection: "taladro" has no keyword row, but a matching product's
// business belongs to Ferreteria.
func (r *Repository) CategoriesOfProductMatches(ctx context.Context, patterns []string, limit int) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT c.id, c.name
		FROM products p
		JOIN businesses b ON b.id = p.business_id
		JOIN categories c ON c.id = b.category_id
		WHERE p.title ILIKE ANY($1)
		LIMIT $2`,
		patterns, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("categories of product matches: %w", err)
	}
	return scanCategories(rows)
}

// SemanticProducts runs a nearest-neighbor lookup over product embeddings.
func (r *Repository) SemanticProducts(ctx context.Context, vec []float32, threshold float64, limit int) ([]domain.Candidate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`, 1 - (p.embedding <=> $1) AS similarity
		`+productFrom+`
		WHERE p.embedding IS NOT NULL
		  AND 1 - (p.embedding <=> $1) >= $2
		ORDER BY p.embedding <=> $1
		LIMIT $3`,
		pgvector.NewVector(vec), threshold, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("semantic products: %w", err)
	}
	defer rows.Close()

	var out []domain.Candidate
	for rows.Next() {
		p, sim, err := scanProductSim(rows)
		if err != nil {
			return nil, err
		}
		c := domain.ProductCandidate(p, domain.ProvenanceSemantic)
		c.Similarity = sim
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("semantic products rows: %w", err)
	}
	return out, nil
}

func scanProductSim(rows pgx.Rows) (domain.Product, float64, error) {
	var (
		p    domain.Product
		b    domain.Business
		pid  pgtype.UUID
		bid  pgtype.UUID
		bid2 pgtype.UUID
		cid  pgtype.UUID
		sim  float64
	)
	if err := rows.Scan(&pid, &p.Title, &p.Description, &p.Price, &bid,
		&bid2, &b.Name, &cid, &b.Address, &b.Phone, &sim); err != nil {
		return domain.Product{}, 0, fmt.Errorf("scan product: %w", err)
	}
	p.ID = uuidFromPg(pid)
	p.BusinessID = uuidFromPg(bid)
	b.ID = uuidFromPg(bid2)
	b.CategoryID = uuidPtrFromPg(cid)
	p.Business = &b
	return p, sim, nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var (
			p    domain.Product
			b    domain.Business
			pid  pgtype.UUID
			bid  pgtype.UUID
			bid2 pgtype.UUID
			cid  pgtype.UUID
		)
		if err := rows.Scan(&pid, &p.Title, &p.Description, &p.Price, &bid,
			&bid2, &b.Name, &cid, &b.Address, &b.Phone); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.ID = uuidFromPg(pid)
		p.BusinessID = uuidFromPg(bid)
		b.ID = uuidFromPg(bid2)
		b.CategoryID = uuidPtrFromPg(cid)
		p.Business = &b
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("product rows: %w", err)
	}
	return out, nil
}
