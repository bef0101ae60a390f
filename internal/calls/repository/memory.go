package repository

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"procurement_backend/platform/apperr"
)

// Memory is an in-process Repository used by tests and local tooling.
type Memory struct {
	mu    sync.RWMutex
	calls map[uuid.UUID]Call
	seq   int64

	// Err, when set, is returned by every call.
	Err error
}

// NewMemory creates an empty in-memory call store.
func NewMemory() *Memory {
	return &Memory{calls: make(map[uuid.UUID]Call)}
}

var _ Repository = (*Memory)(nil)

func (m *Memory) sorted(keep func(Call) bool) []Call {
	out := make([]Call, 0)
	for _, c := range m.calls {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *Memory) List(ctx context.Context, params ListParams) ([]Call, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sorted(func(c Call) bool {
		if params.Category != nil && c.Category != *params.Category {
			return false
		}
		return params.Status == nil || c.Status == *params.Status
	}), nil
}

func (m *Memory) GetByID(ctx context.Context, id uuid.UUID) (Call, error) {
	if m.Err != nil {
		return Call{}, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.calls[id]
	if !ok {
		return Call{}, apperr.NotFound(callNotFoundMessage)
	}
	return c, nil
}

func (m *Memory) ListByCategoryStatuses(ctx context.Context, category string, statuses []string) ([]Call, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sorted(func(c Call) bool {
		return c.Category == category && slices.Contains(statuses, c.Status)
	}), nil
}

func (m *Memory) Create(ctx context.Context, params CreateParams) (Call, error) {
	if m.Err != nil {
		return Call{}, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	now := time.Now().Add(time.Duration(m.seq) * time.Microsecond)
	c := Call{
		ID:           uuid.New(),
		Title:        params.Title,
		Description:  params.Description,
		Category:     params.Category,
		Quantity:     params.Quantity,
		PriceCeiling: params.PriceCeiling,
		Deadline:     params.Deadline,
		Status:       params.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.calls[c.ID] = c
	return c, nil
}

func (m *Memory) Update(ctx context.Context, params UpdateParams) (Call, error) {
	if m.Err != nil {
		return Call{}, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.calls[params.ID]
	if !ok {
		return Call{}, apperr.NotFound(callNotFoundMessage)
	}
	setIf(&c.Title, params.Title)
	setIf(&c.Description, params.Description)
	setIf(&c.Category, params.Category)
	setIf(&c.Quantity, params.Quantity)
	setIf(&c.Status, params.Status)
	if params.PriceCeiling != nil {
		c.PriceCeiling = params.PriceCeiling
	}
	if params.Deadline != nil {
		c.Deadline = params.Deadline
	}
	c.UpdatedAt = time.Now()
	m.calls[c.ID] = c
	return c, nil
}

func (m *Memory) Delete(ctx context.Context, id uuid.UUID) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.calls[id]; !ok {
		return apperr.NotFound(callNotFoundMessage)
	}
	delete(m.calls, id)
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
