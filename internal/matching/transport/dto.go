// Package transport holds the JSON shapes of possibilities.
package transport

import (
	"time"

	"procurement_backend/internal/matching/engine"
)

// CompatibleItemResponse is one item inside a possibility.
type CompatibleItemResponse struct {
	ID              string  `json:"id"`
	Nome            string  `json:"nome"`
	Descricao       string  `json:"descricao"`
	ValorReferencia float64 `json:"valorReferencia"`
	Unidade         string  `json:"unidade"`
}

// PossibilityResponse is the wire form of engine.Possibility.
type PossibilityResponse struct {
	ChamadaID            string                   `json:"chamadaId"`
	PrestadorID          string                   `json:"prestadorId"`
	PrestadorNome        string                   `json:"prestadorNome"`
	PrestadorTipo        string                   `json:"prestadorTipo"`
	ItensCompativeis     []CompatibleItemResponse `json:"itensCompativeis"`
	ValorTotal           float64                  `json:"valorTotal"`
	ScoreCompatibilidade int                      `json:"scoreCompatibilidade"`
	CreatedAt            string                   `json:"createdAt"`
}

// ToPossibilityResponse converts a possibility for output.
func ToPossibilityResponse(p engine.Possibility) PossibilityResponse {
	items := make([]CompatibleItemResponse, len(p.Items))
	for i, item := range p.Items {
		items[i] = CompatibleItemResponse{
			ID:              item.ID.String(),
			Nome:            item.Name,
			Descricao:       item.Description,
			ValorReferencia: item.Price.InexactFloat64(),
			Unidade:         item.Unit,
		}
	}

	return PossibilityResponse{
		ChamadaID:            p.CallID.String(),
		PrestadorID:          p.ProviderID.String(),
		PrestadorNome:        p.ProviderName,
		PrestadorTipo:        p.ProviderKind,
		ItensCompativeis:     items,
		ValorTotal:           p.AggregateValue.InexactFloat64(),
		ScoreCompatibilidade: p.Score,
		CreatedAt:            p.CreatedAt.Format(time.RFC3339),
	}
}

// ToPossibilityResponses converts a ranked list, keeping its order.
func ToPossibilityResponses(list []engine.Possibility) []PossibilityResponse {
	out := make([]PossibilityResponse, len(list))
	for i, p := range list {
		out[i] = ToPossibilityResponse(p)
	}
	return out
}
