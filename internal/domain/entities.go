package domain

import "github.com/google/uuid"

// Business is a storefront ("negocio"). Read-only from the engine's perspective;
// rows are owned by the catalog-management tooling.
type Business struct {
	ID         uuid.UUID
	Name       string
	CategoryID *uuid.UUID // a business belongs to at most one category
	Address    string
	Phone      string
}

// Category is a business classification ("rubro"). Display names are not
// guaranteed unique; ID is canonical.
type Category struct {
	ID   uuid.UUID
	Name string
}

// Keyword maps a dictionary word to a category. The same keyword text may map
// to several categories ("papas" sells at both the verduleria and the kiosco).
type Keyword struct {
	Text       string
	CategoryID uuid.UUID
}

// Product is a catalog item. Category context is inherited transitively
// through the owning business.
type Product struct {
	ID          uuid.UUID
	Title       string
	Description string
	Price       float64
	BusinessID  uuid.UUID
	Business    *Business // joined owning business, when the query fetched it
}
