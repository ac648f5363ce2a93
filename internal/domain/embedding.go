package domain

import "context"

// EmbeddingResult holds an embedding vector and provider token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker is implemented by embedders that can verify provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// SemanticParams tunes one semantic lookup call site. The threshold and cap
// are deliberately per-call-site: the matcher runs loose as a last-resort
// rescue and tight as a precision filter.
type SemanticParams struct {
	Threshold float64 // minimum similarity in [0,1]
	Limit     int     // result cap
}
