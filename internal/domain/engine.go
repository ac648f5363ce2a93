package domain

// EngineResult is the outcome of one relevance engine search call.
type EngineResult struct {
	Term       string
	Winner     *Candidate
	Products   []Candidate
	Businesses []Candidate
	Categories []Candidate
	Context    []CategoryCandidate
	// FailedSources lists lookups that degraded to empty results, so callers
	// never present a partial result set as complete.
	FailedSources []string
}

// Empty reports whether the search produced no candidates at all.
func (r *EngineResult) Empty() bool {
	return len(r.Products) == 0 && len(r.Businesses) == 0 && len(r.Categories) == 0
}
