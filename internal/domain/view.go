package domain

// View names the presentation mode implied by an engine result.
type View string

const (
	// ViewBusinessProfile shows a single business scoped to its own products.
	ViewBusinessProfile View = "business-profile"
	// ViewCategoryBrowse lists businesses in a category plus featured products.
	ViewCategoryBrowse View = "category-browse"
	// ViewProductList renders ranked products with related businesses appended.
	ViewProductList View = "product-list"
	// ViewBusinessList renders ranked businesses only.
	ViewBusinessList View = "business-list"
	// ViewNoResults carries the original term for message formatting.
	ViewNoResults View = "no-results"
)

// ViewDecision is the pure output of the presentation selector.
type ViewDecision struct {
	View     View
	Term     string
	Business *Business // set for business-profile
	Category *Category // set for category-browse
	Products []Candidate
	// Businesses holds the ranked businesses for business-list, or the capped
	// "you might also find it at" set for product-list.
	Businesses []Candidate
}
