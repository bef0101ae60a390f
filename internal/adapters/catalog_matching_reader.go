package adapters

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	catrepo "procurement_backend/internal/catalog/repository"
	"procurement_backend/internal/matching/engine"
	"procurement_backend/platform/apperr"
)

// CatalogMatchingReader adapts the catalog repository to the matching
// engine's CatalogReader port.
type CatalogMatchingReader struct {
	repo catrepo.Repository
}

// NewCatalogMatchingReader creates a new catalog reader adapter.
func NewCatalogMatchingReader(repo catrepo.Repository) *CatalogMatchingReader {
	return &CatalogMatchingReader{repo: repo}
}

var _ engine.CatalogReader = (*CatalogMatchingReader)(nil)

// ItemsByCategoryActive returns the active items of a category in store order.
func (a *CatalogMatchingReader) ItemsByCategoryActive(ctx context.Context, category string) ([]engine.Item, error) {
	items, err := a.repo.ItemsByCategoryActive(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("catalog adapter: items by category: %w", err)
	}

	out := make([]engine.Item, len(items))
	for i, item := range items {
		out[i] = engine.Item{
			ID:          item.ID,
			ProviderID:  item.ProviderID,
			Category:    item.Category,
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			Unit:        item.Unit,
			Active:      item.Active,
		}
	}
	return out, nil
}

// ProviderByID resolves a provider. A missing provider is reported through
// the found flag rather than as an error.
func (a *CatalogMatchingReader) ProviderByID(ctx context.Context, id uuid.UUID) (engine.Provider, bool, error) {
	p, err := a.repo.GetProvider(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return engine.Provider{}, false, nil
		}
		return engine.Provider{}, false, fmt.Errorf("catalog adapter: provider by id: %w", err)
	}
	return engine.Provider{ID: p.ID, Name: p.Name, Kind: p.Kind}, true, nil
}

// ProviderName satisfies the offers ProviderReader port.
func (a *CatalogMatchingReader) ProviderName(ctx context.Context, id uuid.UUID) (string, error) {
	p, err := a.repo.GetProvider(ctx, id)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}
