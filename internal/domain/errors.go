package domain

import "errors"

var (
	// ErrNotFound signals a missing catalog row.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTerm signals an empty or unusable search term.
	ErrInvalidTerm = errors.New("invalid search term")
	// ErrSourceUnavailable signals that a single lookup source failed or timed out.
	// Recovered at the engine boundary: the source degrades to zero candidates.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	// Treated as ErrSourceUnavailable for the semantic matcher.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrAllSourcesFailed signals that every lookup in a search call failed.
	// The only error that surfaces to the user.
	ErrAllSourcesFailed = errors.New("all search sources failed")
)
