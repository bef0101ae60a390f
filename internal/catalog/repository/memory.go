package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"procurement_backend/platform/apperr"
)

// Memory is an in-process Repository used by tests and local tooling.
// It mirrors the PostgreSQL semantics: insertion ordering, cascade on
// provider delete and NotFound errors.
type Memory struct {
	mu        sync.RWMutex
	providers map[uuid.UUID]Provider
	items     map[uuid.UUID]Item
	now       func() time.Time
	seq       int64

	// Err, when set, is returned by every call.
	Err error
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{
		providers: make(map[uuid.UUID]Provider),
		items:     make(map[uuid.UUID]Item),
		now:       time.Now,
	}
}

var _ Repository = (*Memory)(nil)

func (m *Memory) tick() time.Time {
	// Strictly increasing timestamps keep insertion order stable.
	m.seq++
	return m.now().Add(time.Duration(m.seq) * time.Microsecond)
}

func (m *Memory) ListProviders(ctx context.Context) ([]ProviderWithCount, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[uuid.UUID]int)
	for _, item := range m.items {
		counts[item.ProviderID]++
	}
	out := make([]ProviderWithCount, 0, len(m.providers))
	for _, p := range m.providers {
		out = append(out, ProviderWithCount{Provider: p, ItemCount: counts[p.ID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) GetProvider(ctx context.Context, id uuid.UUID) (Provider, error) {
	if m.Err != nil {
		return Provider{}, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.providers[id]
	if !ok {
		return Provider{}, apperr.NotFound(providerNotFoundMessage)
	}
	return p, nil
}

func (m *Memory) CreateProvider(ctx context.Context, params CreateProviderParams) (Provider, error) {
	if m.Err != nil {
		return Provider{}, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.tick()
	p := Provider{
		ID:        uuid.New(),
		Name:      params.Name,
		Email:     params.Email,
		Phone:     params.Phone,
		Kind:      params.Kind,
		CNPJ:      params.CNPJ,
		CPF:       params.CPF,
		Category:  params.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.providers[p.ID] = p
	return p, nil
}

func (m *Memory) UpdateProvider(ctx context.Context, params UpdateProviderParams) (Provider, error) {
	if m.Err != nil {
		return Provider{}, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.providers[params.ID]
	if !ok {
		return Provider{}, apperr.NotFound(providerNotFoundMessage)
	}
	setIf(&p.Name, params.Name)
	setIf(&p.Email, params.Email)
	setIf(&p.Phone, params.Phone)
	setIf(&p.Kind, params.Kind)
	setIf(&p.Category, params.Category)
	if params.CNPJ != nil {
		p.CNPJ = params.CNPJ
	}
	if params.CPF != nil {
		p.CPF = params.CPF
	}
	p.UpdatedAt = m.now()
	m.providers[p.ID] = p
	return p, nil
}

func (m *Memory) DeleteProvider(ctx context.Context, id uuid.UUID) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.providers[id]; !ok {
		return apperr.NotFound(providerNotFoundMessage)
	}
	delete(m.providers, id)
	for itemID, item := range m.items {
		if item.ProviderID == id {
			delete(m.items, itemID)
		}
	}
	return nil
}

func (m *Memory) ListItems(ctx context.Context, params ListItemsParams) ([]ItemWithProvider, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ItemWithProvider, 0)
	for _, item := range m.sortedItems() {
		if params.ProviderID != nil && item.ProviderID != *params.ProviderID {
			continue
		}
		if params.Category != nil && item.Category != *params.Category {
			continue
		}
		if params.Active != nil && item.Active != *params.Active {
			continue
		}
		out = append(out, m.withProvider(item))
	}
	return out, nil
}

func (m *Memory) GetItem(ctx context.Context, id uuid.UUID) (ItemWithProvider, error) {
	if m.Err != nil {
		return ItemWithProvider{}, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	if !ok {
		return ItemWithProvider{}, apperr.NotFound(itemNotFoundMessage)
	}
	return m.withProvider(item), nil
}

func (m *Memory) ItemsByProvider(ctx context.Context, providerID uuid.UUID) ([]Item, error) {
	return m.filterItems(func(i Item) bool { return i.ProviderID == providerID })
}

func (m *Memory) ItemsByCategoryActive(ctx context.Context, category string) ([]Item, error) {
	return m.filterItems(func(i Item) bool { return i.Category == category && i.Active })
}

func (m *Memory) CreateItem(ctx context.Context, params CreateItemParams) (Item, error) {
	if m.Err != nil {
		return Item{}, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.tick()
	item := Item{
		ID:          uuid.New(),
		ProviderID:  params.ProviderID,
		Category:    params.Category,
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		Unit:        params.Unit,
		Active:      params.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.items[item.ID] = item
	return item, nil
}

func (m *Memory) UpdateItem(ctx context.Context, params UpdateItemParams) (Item, error) {
	if m.Err != nil {
		return Item{}, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[params.ID]
	if !ok {
		return Item{}, apperr.NotFound(itemNotFoundMessage)
	}
	setIf(&item.Category, params.Category)
	setIf(&item.Name, params.Name)
	setIf(&item.Description, params.Description)
	setIf(&item.Unit, params.Unit)
	setIf(&item.Price, params.Price)
	setIf(&item.Active, params.Active)
	item.UpdatedAt = m.now()
	m.items[item.ID] = item
	return item, nil
}

func (m *Memory) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return apperr.NotFound(itemNotFoundMessage)
	}
	delete(m.items, id)
	return nil
}

func (m *Memory) filterItems(keep func(Item) bool) ([]Item, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Item, 0)
	for _, item := range m.sortedItems() {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *Memory) sortedItems() []Item {
	items := make([]Item, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items
}

func (m *Memory) withProvider(item Item) ItemWithProvider {
	out := ItemWithProvider{Item: item}
	if p, ok := m.providers[item.ProviderID]; ok {
		name := p.Name
		out.ProviderName = &name
	}
	return out
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
