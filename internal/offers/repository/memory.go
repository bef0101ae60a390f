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
type Memory struct {
	mu     sync.RWMutex
	offers map[uuid.UUID]Offer
	seq    int64
}

// NewMemory creates an empty in-memory offer store.
func NewMemory() *Memory {
	return &Memory{offers: make(map[uuid.UUID]Offer)}
}

var _ Repository = (*Memory)(nil)

func (m *Memory) Create(ctx context.Context, params CreateParams) (Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	now := time.Now().Add(time.Duration(m.seq) * time.Microsecond)
	o := Offer{
		ID:           uuid.New(),
		CallID:       params.CallID,
		ProviderID:   params.ProviderID,
		ProviderName: params.ProviderName,
		Value:        params.Value,
		Description:  params.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.offers[o.ID] = o
	return o, nil
}

func (m *Memory) GetByID(ctx context.Context, id uuid.UUID) (Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.offers[id]
	if !ok {
		return Offer{}, apperr.NotFound(offerNotFoundMessage)
	}
	return o, nil
}

func (m *Memory) List(ctx context.Context, params ListParams) ([]Offer, error) {
	out := m.filter(func(o Offer) bool {
		if params.CallID != nil && o.CallID != *params.CallID {
			return false
		}
		return params.ProviderID == nil || o.ProviderID == *params.ProviderID
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) ListByCall(ctx context.Context, callID uuid.UUID) ([]Offer, error) {
	out := m.filter(func(o Offer) bool { return o.CallID == callID })
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Value.Cmp(out[j].Value); c != 0 {
			return c < 0
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) filter(keep func(Offer) bool) []Offer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Offer, 0)
	for _, o := range m.offers {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}
