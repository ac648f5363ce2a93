package domain

import "github.com/google/uuid"

// Kind tags the entity type inside a Candidate.
type Kind string

const (
	// KindBusiness marks a business candidate.
	KindBusiness Kind = "business"
	// KindCategory marks a category candidate.
	KindCategory Kind = "category"
	// KindProduct marks a product candidate.
	KindProduct Kind = "product"
)

// Provenance records how a candidate was retrieved.
type Provenance string

const (
	// ProvenanceExact is a case-insensitive full-name match.
	ProvenanceExact Provenance = "exact"
	// ProvenancePrefix is a name-starts-with match.
	ProvenancePrefix Provenance = "prefix"
	// ProvenancePartial is a substring match.
	ProvenancePartial Provenance = "partial"
	// ProvenanceKeyword is a dictionary keyword resolution.
	ProvenanceKeyword Provenance = "keyword"
	// ProvenanceFuzzy is a full-text or trigram match (typo recovery).
	ProvenanceFuzzy Provenance = "fuzzy"
	// ProvenanceSemantic is an embedding nearest-neighbor match.
	ProvenanceSemantic Provenance = "semantic"
)

// Rank orders provenance tiers, highest first: exact > prefix > partial >
// fuzzy > keyword > semantic.
func (p Provenance) Rank() int {
	switch p {
	case ProvenanceExact:
		return 60
	case ProvenancePrefix:
		return 50
	case ProvenancePartial:
		return 40
	case ProvenanceFuzzy:
		return 30
	case ProvenanceKeyword:
		return 20
	case ProvenanceSemantic:
		return 10
	default:
		return 0
	}
}

// Candidate is the ephemeral, scored tagged union over business, category and
// product. Created fresh per query, never persisted. Exactly one of Business,
// Category, Product is set, matching Kind.
type Candidate struct {
	Kind       Kind
	Provenance Provenance
	Score      float64
	Similarity float64 // set when retrieved semantically, in [0,1]
	Business   *Business
	Category   *Category
	Product    *Product
}

// ID returns the canonical identifier of the wrapped entity.
func (c *Candidate) ID() uuid.UUID {
	switch c.Kind {
	case KindBusiness:
		return c.Business.ID
	case KindCategory:
		return c.Category.ID
	case KindProduct:
		return c.Product.ID
	default:
		return uuid.Nil
	}
}

// Label returns the display name or title of the wrapped entity.
func (c *Candidate) Label() string {
	switch c.Kind {
	case KindBusiness:
		return c.Business.Name
	case KindCategory:
		return c.Category.Name
	case KindProduct:
		return c.Product.Title
	default:
		return ""
	}
}

// BusinessCandidate wraps a business.
func BusinessCandidate(b Business, prov Provenance) Candidate {
	return Candidate{Kind: KindBusiness, Provenance: prov, Business: &b}
}

// CategoryCandidateOf wraps a category.
func CategoryCandidateOf(c Category, prov Provenance) Candidate {
	return Candidate{Kind: KindCategory, Provenance: prov, Category: &c}
}

// ProductCandidate wraps a product.
func ProductCandidate(p Product, prov Provenance) Candidate {
	return Candidate{Kind: KindProduct, Provenance: prov, Product: &p}
}
