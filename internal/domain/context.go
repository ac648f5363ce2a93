package domain

import "github.com/google/uuid"

// CategoryCandidate is a category detected as query context, tagged with how
// it was found and how confident the detector is (0-100 scale).
type CategoryCandidate struct {
	Category   Category
	Provenance Provenance
	Confidence float64
}

// Nucleo reports whether the category was found by a lexical or keyword path.
// Nucleo ("core") matches always outrank periphery (semantic-only) matches.
func (c *CategoryCandidate) Nucleo() bool {
	return c.Provenance != ProvenanceSemantic
}

// ContextSet splits detected categories into the core and periphery id sets
// used by the scoring model.
type ContextSet struct {
	Core      map[uuid.UUID]struct{}
	Periphery map[uuid.UUID]struct{}
}

// NewContextSet builds a ContextSet from detector output.
func NewContextSet(detected []CategoryCandidate) ContextSet {
	s := ContextSet{
		Core:      make(map[uuid.UUID]struct{}),
		Periphery: make(map[uuid.UUID]struct{}),
	}
	for i := range detected {
		if detected[i].Nucleo() {
			s.Core[detected[i].Category.ID] = struct{}{}
		} else {
			s.Periphery[detected[i].Category.ID] = struct{}{}
		}
	}
	return s
}

// InCore reports core membership for a nullable category reference.
func (s ContextSet) InCore(id *uuid.UUID) bool {
	if id == nil {
		return false
	}
	_, ok := s.Core[*id]
	return ok
}

// InPeriphery reports periphery membership for a nullable category reference.
func (s ContextSet) InPeriphery(id *uuid.UUID) bool {
	if id == nil {
		return false
	}
	_, ok := s.Periphery[*id]
	return ok
}
