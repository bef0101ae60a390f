package alerts

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"procurement_backend/internal/domain"
	"procurement_backend/internal/events"
	"procurement_backend/internal/matching/engine"
	"procurement_backend/internal/scheduler"
	"procurement_backend/platform/apperr"
	"procurement_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCalls struct {
	calls []engine.Call
	err   error
}

func (f *fakeCalls) CallByID(_ context.Context, id uuid.UUID) (engine.Call, error) {
	for _, c := range f.calls {
		if c.ID == id {
			return c, nil
		}
	}
	return engine.Call{}, apperr.NotFound("Chamada não encontrada")
}

func (f *fakeCalls) CallsByCategoryStatuses(_ context.Context, category string, statuses []string) ([]engine.Call, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []engine.Call
	for _, c := range f.calls {
		if c.Category == category && domain.AcceptsOffers(c.Status) {
			out = append(out, c)
		}
	}
	return out, nil
}

// twoProviders yields two possibilities for every call.
type twoProviders struct{}

func (twoProviders) ComputePossibilities(_ context.Context, call engine.Call) ([]engine.Possibility, error) {
	return []engine.Possibility{
		{CallID: call.ID, ProviderID: uuid.New(), ProviderName: "Tech Solutions", Score: 115, Items: make([]engine.CompatibleItem, 2)},
		{CallID: call.ID, ProviderID: uuid.New(), ProviderName: "Mega Sistemas", Score: 100, Items: make([]engine.CompatibleItem, 1)},
	}, nil
}

func alertLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		if entry["msg"] == "match_alert" {
			out = append(out, entry)
		}
	}
	return out
}

func TestRefreshForItem_OnlyOpenCallsOfCategory(t *testing.T) {
	calls := &fakeCalls{calls: []engine.Call{
		{ID: uuid.New(), Category: "Tecnologia", Status: domain.StatusOpen},
		{ID: uuid.New(), Category: "Tecnologia", Status: domain.StatusUnderReview},
		{ID: uuid.New(), Category: "Tecnologia", Status: domain.StatusClosed},
		{ID: uuid.New(), Category: "Saúde", Status: domain.StatusOpen},
	}}
	var buf bytes.Buffer
	svc := NewService(calls, twoProviders{}, logger.NewWithWriter("production", &buf))

	refreshed, err := svc.RefreshForItem(context.Background(), "Tecnologia")
	require.NoError(t, err)
	assert.Equal(t, 2, refreshed)

	lines := alertLines(t, &buf)
	require.Len(t, lines, 4)
	assert.Equal(t, "Tech Solutions", lines[0]["prestador_nome"])
	assert.EqualValues(t, 2, lines[0]["itens"])
}

func TestRefreshForItem_ListError(t *testing.T) {
	svc := NewService(&fakeCalls{err: errors.New("boom")}, twoProviders{}, logger.NewWithWriter("test", io.Discard))

	_, err := svc.RefreshForItem(context.Background(), "Tecnologia")
	assert.Error(t, err)
}

func TestAlertCall(t *testing.T) {
	open := engine.Call{ID: uuid.New(), Category: "Saúde", Status: domain.StatusOpen}
	awarded := engine.Call{ID: uuid.New(), Category: "Saúde", Status: domain.StatusAwarded}
	svc := NewService(&fakeCalls{calls: []engine.Call{open, awarded}}, twoProviders{}, logger.NewWithWriter("test", io.Discard))
	ctx := context.Background()

	n, err := svc.AlertCall(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.AlertCall(ctx, awarded.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.AlertCall(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, n)
}

type fakeEnqueuer struct {
	items []scheduler.ItemChangedPayload
	calls []scheduler.CallAlertPayload
}

func (f *fakeEnqueuer) EnqueueItemChanged(_ context.Context, p scheduler.ItemChangedPayload) error {
	f.items = append(f.items, p)
	return nil
}

func (f *fakeEnqueuer) EnqueueCallAlert(_ context.Context, p scheduler.CallAlertPayload) error {
	f.calls = append(f.calls, p)
	return nil
}

func TestHandle_EnqueuesWhenQueueConfigured(t *testing.T) {
	enq := &fakeEnqueuer{}
	m := NewModule(&fakeCalls{}, twoProviders{}, enq, logger.NewWithWriter("test", io.Discard))
	ctx := context.Background()
	itemID := uuid.New()
	callID := uuid.New()

	require.NoError(t, m.Handle(ctx, events.ItemChanged{ItemID: itemID, Category: "Tecnologia"}))
	require.NoError(t, m.Handle(ctx, events.CallCreated{CallID: callID}))
	require.NoError(t, m.Handle(ctx, events.CallUpdated{CallID: callID}))

	assert.Equal(t, []scheduler.ItemChangedPayload{{ItemID: itemID.String(), Category: "Tecnologia"}}, enq.items)
	assert.Len(t, enq.calls, 2)
	assert.Equal(t, callID.String(), enq.calls[0].CallID)
}

func TestHandle_RunsInlineThroughBus(t *testing.T) {
	call := engine.Call{ID: uuid.New(), Category: "Tecnologia", Status: domain.StatusOpen}
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)
	m := NewModule(&fakeCalls{calls: []engine.Call{call}}, twoProviders{}, nil, log)

	bus := events.NewInMemoryBus(logger.NewWithWriter("test", io.Discard))
	m.RegisterHandlers(bus)
	bus.Publish(context.Background(), events.CallCreated{BaseEvent: events.NewBaseEvent(), CallID: call.ID, Category: call.Category})
	bus.Wait()

	assert.Len(t, alertLines(t, &buf), 2)
}
