package lexical

import "strings"

// Singular strips a trailing "s" from terms longer than three characters, a
// naive recovery for Spanish pluralization ("hamburguesas" finds
// "hamburguesa"). Returns the term unchanged when the rule does not apply.
func Singular(term string) string {
	if len(term) > 3 && strings.HasSuffix(term, "s") {
		return term[:len(term)-1]
	}
	return term
}

// Patterns builds the ILIKE containment patterns for a term: the term itself
// plus its naive singular when they differ.
func Patterns(term string) []string {
	patterns := []string{"%" + term + "%"}
	if s := Singular(term); s != term {
		patterns = append(patterns, "%"+s+"%")
	}
	return patterns
}

// Contains reports whether text contains the term or its naive singular,
// case-insensitively.
func Contains(text, term string) bool {
	text = strings.ToLower(text)
	term = strings.ToLower(term)
	if strings.Contains(text, term) {
		return true
	}
	if s := Singular(term); s != term {
		return strings.Contains(text, s)
	}
	return false
}
