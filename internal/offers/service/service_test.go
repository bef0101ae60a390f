package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"procurement_backend/internal/adapters"
	callrepo "procurement_backend/internal/calls/repository"
	catrepo "procurement_backend/internal/catalog/repository"
	"procurement_backend/internal/domain"
	"procurement_backend/internal/events"
	"procurement_backend/internal/matching/engine"
	"procurement_backend/internal/offers/repository"
	"procurement_backend/internal/offers/transport"
	"procurement_backend/platform/apperr"
	"procurement_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type matchingConfig struct{}

func (matchingConfig) GetMatchingTimeout() time.Duration { return 0 }
func (matchingConfig) GetMatchingMaxParallel() int       { return 2 }

type submitted struct {
	mu     sync.Mutex
	events []events.OfferSubmitted
}

func (s *submitted) Handle(_ context.Context, event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event.(events.OfferSubmitted))
	return nil
}

type fixture struct {
	svc      *Service
	bus      *events.InMemoryBus
	rec      *submitted
	catalog  *catrepo.Memory
	calls    *callrepo.Memory
	call     callrepo.Call
	eligible catrepo.Provider
	outsider catrepo.Provider
}

// setup builds a Tecnologia call capped at 100000 with one provider whose
// items fit and one whose only item is above the ceiling.
func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	log := logger.NewWithWriter("test", io.Discard)

	catalog := catrepo.NewMemory()
	eligible, err := catalog.CreateProvider(ctx, catrepo.CreateProviderParams{Name: "Tech Solutions", Kind: domain.ProviderCompany, Category: "Tecnologia"})
	require.NoError(t, err)
	outsider, err := catalog.CreateProvider(ctx, catrepo.CreateProviderParams{Name: "Mega Sistemas", Kind: domain.ProviderCompany, Category: "Tecnologia"})
	require.NoError(t, err)
	for _, p := range []catrepo.CreateItemParams{
		{ProviderID: eligible.ID, Category: "Tecnologia", Name: "ERP", Price: decimal.NewFromInt(85000), Unit: "projeto", Active: true},
		{ProviderID: eligible.ID, Category: "Tecnologia", Name: "Suporte", Price: decimal.NewFromInt(8000), Unit: "mensal", Active: true},
		{ProviderID: outsider.ID, Category: "Tecnologia", Name: "Plataforma", Price: decimal.NewFromInt(150000), Unit: "projeto", Active: true},
	} {
		_, err := catalog.CreateItem(ctx, p)
		require.NoError(t, err)
	}

	calls := callrepo.NewMemory()
	ceiling := decimal.NewFromInt(100000)
	call, err := calls.Create(ctx, callrepo.CreateParams{Title: "Sistema de gestão", Category: "Tecnologia", Quantity: 1, PriceCeiling: &ceiling, Status: domain.StatusOpen})
	require.NoError(t, err)

	catalogReader := adapters.NewCatalogMatchingReader(catalog)
	eng := engine.New(catalogReader, matchingConfig{}, nil)

	bus := events.NewInMemoryBus(log)
	rec := &submitted{}
	bus.Subscribe(events.OfferSubmitted{}.EventName(), rec)

	svc := New(repository.NewMemory(), adapters.NewCallMatchingReader(calls), catalogReader, eng, bus, log)
	return &fixture{svc: svc, bus: bus, rec: rec, catalog: catalog, calls: calls, call: call, eligible: eligible, outsider: outsider}
}

func offer(callID, providerID uuid.UUID, value float64) transport.CreateOfferRequest {
	return transport.CreateOfferRequest{ChamadaID: callID.String(), PrestadorID: providerID.String(), Valor: &value, Descricao: "Proposta"}
}

func TestCreate_EligibleProvider(t *testing.T) {
	f := setup(t)

	got, err := f.svc.Create(context.Background(), offer(f.call.ID, f.eligible.ID, 90000))
	require.NoError(t, err)
	f.bus.Wait()

	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "Tech Solutions", got.PrestadorNome)
	assert.Equal(t, 90000.0, got.Valor)
	assert.Equal(t, f.call.ID, got.ChamadaID)

	require.Len(t, f.rec.events, 1)
	assert.Equal(t, got.ID, f.rec.events[0].OfferID)
	assert.Equal(t, "90000", f.rec.events[0].Value)
}

func TestCreate_ProviderWithoutPossibilityIsIneligible(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Create(context.Background(), offer(f.call.ID, f.outsider.ID, 120000))
	require.Error(t, err)
	assert.Equal(t, apperr.KindIneligible, apperr.GetKind(err))

	listed, err := f.svc.List(context.Background(), transport.ListOffersRequest{})
	require.NoError(t, err)
	assert.Empty(t, listed)
	f.bus.Wait()
	assert.Empty(t, f.rec.events)
}

func TestCreate_MissingCallOrProvider(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, offer(uuid.New(), f.eligible.ID, 10))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.svc.Create(ctx, offer(f.call.ID, uuid.New(), 10))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreate_IgnoresCallStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	closed := domain.StatusClosed
	_, err := f.calls.Update(ctx, callrepo.UpdateParams{ID: f.call.ID, Status: &closed})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, offer(f.call.ID, f.eligible.ID, 1000))
	assert.NoError(t, err)
}

func TestCreate_GateFollowsCatalogChanges(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ok, err := f.svc.CanOffer(ctx, f.call.ID, f.outsider.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.catalog.CreateItem(ctx, catrepo.CreateItemParams{
		ProviderID: f.outsider.ID, Category: "Tecnologia", Name: "Consultoria", Price: decimal.NewFromInt(20000), Unit: "projeto", Active: true,
	})
	require.NoError(t, err)

	ok, err = f.svc.CanOffer(ctx, f.call.ID, f.outsider.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListByCall_CheapestFirst(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, v := range []float64{70000, 50000, 60000} {
		_, err := f.svc.Create(ctx, offer(f.call.ID, f.eligible.ID, v))
		require.NoError(t, err)
	}

	list, err := f.svc.ListByCall(ctx, f.call.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []float64{50000, 60000, 70000}, []float64{list[0].Valor, list[1].Valor, list[2].Valor})

	_, err = f.svc.ListByCall(ctx, uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestList_Filters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, offer(f.call.ID, f.eligible.ID, 1000))
	require.NoError(t, err)

	byProvider, err := f.svc.List(ctx, transport.ListOffersRequest{PrestadorID: f.eligible.ID.String()})
	require.NoError(t, err)
	assert.Len(t, byProvider, 1)

	byOther, err := f.svc.List(ctx, transport.ListOffersRequest{PrestadorID: f.outsider.ID.String()})
	require.NoError(t, err)
	assert.Empty(t, byOther)

	got, err := f.svc.Get(ctx, byProvider[0].ID)
	require.NoError(t, err)
	assert.Equal(t, byProvider[0].ID, got.ID)

	_, err = f.svc.Get(ctx, uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
