package httpapi

import (
	"github.com/mibarrio/buscador/internal/domain"
	healthuc "github.com/mibarrio/buscador/internal/usecase/health"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

type semanticResponse struct {
	Results []candidateResponse `json:"results"`
}

// candidateResponse flattens the candidate tagged union for the wire. Only the
// fields of the wrapped entity are populated.
type candidateResponse struct {
	ID           string  `json:"id"`
	Kind         string  `json:"kind"`
	Provenance   string  `json:"provenance"`
	Score        float64 `json:"score"`
	Similarity   float64 `json:"similarity,omitempty"`
	Name         string  `json:"name,omitempty"`
	Title        string  `json:"title,omitempty"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price,omitempty"`
	Address      string  `json:"address,omitempty"`
	Phone        string  `json:"phone,omitempty"`
	BusinessID   string  `json:"business_id,omitempty"`
	BusinessName string  `json:"business_name,omitempty"`
}

func candidateFrom(c *domain.Candidate) candidateResponse {
	out := candidateResponse{
		ID:         c.ID().String(),
		Kind:       string(c.Kind),
		Provenance: string(c.Provenance),
		Score:      c.Score,
		Similarity: c.Similarity,
	}
	switch c.Kind {
	case domain.KindBusiness:
		out.Name = c.Business.Name
		out.Address = c.Business.Address
		out.Phone = c.Business.Phone
	case domain.KindCategory:
		out.Name = c.Category.Name
	case domain.KindProduct:
		out.Title = c.Product.Title
		out.Description = c.Product.Description
		out.Price = c.Product.Price
		out.BusinessID = c.Product.BusinessID.String()
		if c.Product.Business != nil {
			out.BusinessName = c.Product.Business.Name
		}
	}
	return out
}

type contextResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Provenance string  `json:"provenance"`
	Confidence float64 `json:"confidence"`
	Nucleo     bool    `json:"nucleo"`
}

type businessResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type searchResponse struct {
	Term          string              `json:"term"`
	View          string              `json:"view"`
	Winner        *candidateResponse  `json:"winner,omitempty"`
	Business      *businessResponse   `json:"business,omitempty"`
	Category      *categoryResponse   `json:"category,omitempty"`
	Products      []candidateResponse `json:"products"`
	Businesses    []candidateResponse `json:"businesses"`
	Categories    []candidateResponse `json:"categories"`
	Context       []contextResponse   `json:"context"`
	FailedSources []string            `json:"failed_sources,omitempty"`
}

func searchResponseFrom(res *domain.EngineResult, d *domain.ViewDecision) searchResponse {
	out := searchResponse{
		Term:          res.Term,
		View:          string(d.View),
		Products:      candidatesFrom(d.Products),
		Businesses:    candidatesFrom(d.Businesses),
		Categories:    candidatesFrom(res.Categories),
		Context:       make([]contextResponse, 0, len(res.Context)),
		FailedSources: res.FailedSources,
	}
	if res.Winner != nil {
		w := candidateFrom(res.Winner)
		out.Winner = &w
	}
	if d.Business != nil {
		out.Business = &businessResponse{
			ID:      d.Business.ID.String(),
			Name:    d.Business.Name,
			Address: d.Business.Address,
			Phone:   d.Business.Phone,
		}
	}
	if d.Category != nil {
		out.Category = &categoryResponse{ID: d.Category.ID.String(), Name: d.Category.Name}
	}
	for i := range res.Context {
		c := &res.Context[i]
		out.Context = append(out.Context, contextResponse{
			ID:         c.Category.ID.String(),
			Name:       c.Category.Name,
			Provenance: string(c.Provenance),
			Confidence: c.Confidence,
			Nucleo:     c.Nucleo(),
		})
	}
	return out
}

func candidatesFrom(cands []domain.Candidate) []candidateResponse {
	out := make([]candidateResponse, 0, len(cands))
	for i := range cands {
		out = append(out, candidateFrom(&cands[i]))
	}
	return out
}
