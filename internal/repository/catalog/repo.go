// Package catalog implements read access to the commerce catalog
// (businesses, categories, keywords, products) over Postgres.
//
// Expected schema: businesses(id, name, category_id, address, phone,
// embedding), categories(id, name, embedding), keywords(keyword,
// category_id) and products(id, title, description, price, business_id,
// embedding), with pgvector columns for the embeddings. Rows are owned by the
// catalog-management tooling; this package only reads them, except for the
// embedding backfill updates.
package catalog

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mibarrio/buscador/internal/db/postgres"
)

// Repository runs catalog queries against the Postgres pool.
type Repository struct {
	db *postgres.DB
}

// New creates a catalog repository.
func New(db *postgres.DB) *Repository {
	return &Repository{db: db}
}

// BusinessRow is a business joined with its category name, used by the
// embedding backfill to build enriched text.
type BusinessRow struct {
	ID           uuid.UUID
	Name         string
	CategoryID   *uuid.UUID
	CategoryName string
	Address      string
	Phone        string
}

// ProductRow is a product joined with its owning business and category name.
type ProductRow struct {
	ID           uuid.UUID
	Title        string
	Description  string
	BusinessName string
	CategoryName string
}

func uuidFromPg(v pgtype.UUID) uuid.UUID {
	return uuid.UUID(v.Bytes)
}

func uuidPtrFromPg(v pgtype.UUID) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id := uuid.UUID(v.Bytes)
	return &id
}

func pgFromUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}
