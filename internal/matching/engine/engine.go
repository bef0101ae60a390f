// Package engine computes which providers are compatible with a call.
// Possibilities are derived on every read from the current catalog and
// are never stored.
package engine

import (
	"bytes"
	"context"
	"slices"
	"time"

	"procurement_backend/platform/apperr"
	"procurement_backend/platform/config"
	"procurement_backend/platform/telemetry"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const defaultMaxParallel = 8

// Provider is the slice of a provider record the engine needs.
type Provider struct {
	ID   uuid.UUID
	Name string
	Kind string
}

// Item is a catalog item as read by the engine.
type Item struct {
	ID          uuid.UUID
	ProviderID  uuid.UUID
	Category    string
	Name        string
	Description string
	Price       decimal.Decimal
	Unit        string
	Active      bool
}

// Call is the slice of a call record the engine needs.
// A nil PriceCeiling means the call has no ceiling.
type Call struct {
	ID           uuid.UUID
	Category     string
	PriceCeiling *decimal.Decimal
	Status       string
}

// CompatibleItem is the snapshot of an item listed in a Possibility.
type CompatibleItem struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Unit        string
}

// Possibility states that a provider can serve a call with the listed items.
type Possibility struct {
	CallID         uuid.UUID
	ProviderID     uuid.UUID
	ProviderName   string
	ProviderKind   string
	Items          []CompatibleItem
	AggregateValue decimal.Decimal
	Score          int
	CreatedAt      time.Time
}

// CatalogReader is the catalog access the engine depends on.
type CatalogReader interface {
	// ItemsByCategoryActive returns the active items of a category.
	ItemsByCategoryActive(ctx context.Context, category string) ([]Item, error)
	// ProviderByID returns found=false when the provider does not exist.
	ProviderByID(ctx context.Context, id uuid.UUID) (Provider, bool, error)
}

// Engine computes ranked possibilities for calls.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	catalog     CatalogReader
	maxParallel int
	timeout     time.Duration
	metrics     *Metrics
	now         func() time.Time
}

// New creates an engine reading from catalog.
// metrics may be nil.
func New(catalog CatalogReader, cfg config.MatchingConfig, metrics *Metrics) *Engine {
	maxParallel := cfg.GetMatchingMaxParallel()
	if maxParallel < 1 {
		maxParallel = defaultMaxParallel
	}
	return &Engine{
		catalog:     catalog,
		maxParallel: maxParallel,
		timeout:     cfg.GetMatchingTimeout(),
		metrics:     metrics,
		now:         time.Now,
	}
}

// ComputePossibilities returns one Possibility per provider owning at least
// one active item of the call's category priced within the call's ceiling,
// ranked by score (highest first) and then by provider id.
//
// The result is all-or-nothing: a failed store read or an expired deadline
// returns an error and no possibilities.
func (e *Engine) ComputePossibilities(ctx context.Context, call Call) (result []Possibility, err error) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "matching", "compute_possibilities",
		attribute.String("chamada.id", call.ID.String()),
		attribute.String("chamada.categoria", call.Category),
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.SetAttributes(attribute.Int("possibilidades", len(result)))
		span.End()
		e.metrics.observe(time.Since(start), len(result), err)
	}()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	items, err := e.catalog.ItemsByCategoryActive(ctx, call.Category)
	if err != nil {
		return nil, apperr.FromStore("items by category", err)
	}

	groups, order := groupByProvider(compatibleItems(items, call))
	if len(order) == 0 {
		return []Possibility{}, nil
	}

	providers, err := e.resolveProviders(ctx, order)
	if err != nil {
		return nil, err
	}

	generatedAt := e.now().UTC()
	result = make([]Possibility, 0, len(order))
	for i, providerID := range order {
		provider := providers[i]
		if provider == nil {
			continue
		}
		result = append(result, buildPossibility(call, *provider, groups[providerID], generatedAt))
	}

	Rank(result)
	return result, nil
}

// Rank orders possibilities by score descending, then provider id ascending.
func Rank(possibilities []Possibility) {
	slices.SortStableFunc(possibilities, func(a, b Possibility) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return bytes.Compare(a.ProviderID[:], b.ProviderID[:])
	})
}

// Contains reports whether providerID appears in possibilities.
func Contains(possibilities []Possibility, providerID uuid.UUID) bool {
	for _, p := range possibilities {
		if p.ProviderID == providerID {
			return true
		}
	}
	return false
}

func compatibleItems(items []Item, call Call) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if !item.Active || item.Category != call.Category {
			continue
		}
		if call.PriceCeiling != nil && item.Price.GreaterThan(*call.PriceCeiling) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// groupByProvider keeps providers in order of first appearance.
func groupByProvider(items []Item) (map[uuid.UUID][]Item, []uuid.UUID) {
	groups := make(map[uuid.UUID][]Item)
	order := make([]uuid.UUID, 0)
	for _, item := range items {
		if _, seen := groups[item.ProviderID]; !seen {
			order = append(order, item.ProviderID)
		}
		groups[item.ProviderID] = append(groups[item.ProviderID], item)
	}
	return groups, order
}

// resolveProviders looks providers up concurrently. The returned slice is
// aligned with ids; missing providers are nil.
func (e *Engine) resolveProviders(ctx context.Context, ids []uuid.UUID) ([]*Provider, error) {
	resolved := make([]*Provider, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxParallel)
	for i, id := range ids {
		g.Go(func() error {
			provider, found, err := e.catalog.ProviderByID(gctx, id)
			if err != nil {
				return err
			}
			if found {
				resolved[i] = &provider
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, apperr.FromStore("provider by id", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperr.FromStore("provider by id", err)
	}
	return resolved, nil
}

func buildPossibility(call Call, provider Provider, items []Item, generatedAt time.Time) Possibility {
	compatible := make([]CompatibleItem, len(items))
	prices := make([]decimal.Decimal, len(items))
	for i, item := range items {
		compatible[i] = CompatibleItem{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			Unit:        item.Unit,
		}
		prices[i] = item.Price
	}

	return Possibility{
		CallID:         call.ID,
		ProviderID:     provider.ID,
		ProviderName:   provider.Name,
		ProviderKind:   provider.Kind,
		Items:          compatible,
		AggregateValue: Sum(prices),
		Score:          Score(prices, call.PriceCeiling),
		CreatedAt:      generatedAt,
	}
}
