package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"procurement_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConfig struct {
	timeout     time.Duration
	maxParallel int
}

func (s stubConfig) GetMatchingTimeout() time.Duration { return s.timeout }
func (s stubConfig) GetMatchingMaxParallel() int       { return s.maxParallel }

type fakeCatalog struct {
	mu        sync.Mutex
	items     []Item
	providers map[uuid.UUID]Provider

	itemsErr    error
	providerErr error
	block       bool

	inflight    int32
	maxInflight int32
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{providers: make(map[uuid.UUID]Provider)}
}

func (f *fakeCatalog) addProvider(name, kind string) uuid.UUID {
	id := uuid.New()
	f.providers[id] = Provider{ID: id, Name: name, Kind: kind}
	return id
}

func (f *fakeCatalog) addItem(providerID uuid.UUID, category string, price int64, active bool) Item {
	item := Item{
		ID:         uuid.New(),
		ProviderID: providerID,
		Category:   category,
		Name:       "item",
		Price:      decimal.NewFromInt(price),
		Unit:       "unidade",
		Active:     active,
	}
	f.items = append(f.items, item)
	return item
}

// ItemsByCategoryActive filters like the real store would.
func (f *fakeCatalog) ItemsByCategoryActive(ctx context.Context, category string) ([]Item, error) {
	if f.itemsErr != nil {
		return nil, f.itemsErr
	}
	out := make([]Item, 0)
	for _, item := range f.items {
		if item.Category == category && item.Active {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ProviderByID(ctx context.Context, id uuid.UUID) (Provider, bool, error) {
	current := atomic.AddInt32(&f.inflight, 1)
	defer atomic.AddInt32(&f.inflight, -1)
	for {
		seen := atomic.LoadInt32(&f.maxInflight)
		if current <= seen || atomic.CompareAndSwapInt32(&f.maxInflight, seen, current) {
			break
		}
	}

	if f.block {
		<-ctx.Done()
		return Provider{}, false, ctx.Err()
	}
	if f.providerErr != nil {
		return Provider{}, false, f.providerErr
	}
	time.Sleep(time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.providers[id]
	return p, ok, nil
}

func newEngine(catalog CatalogReader) *Engine {
	return New(catalog, stubConfig{maxParallel: 4}, nil)
}

func ceiling(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestComputePossibilities_CeilingFilterAndBudgetBonus(t *testing.T) {
	catalog := newFakeCatalog()
	a := catalog.addProvider("Tech Solutions Ltda", "empresa")
	b := catalog.addProvider("Construtora Alfa", "empresa")
	catalog.addItem(a, "Tecnologia", 85000, true)
	catalog.addItem(a, "Tecnologia", 8000, true)
	catalog.addItem(b, "Tecnologia", 150000, true)

	call := Call{ID: uuid.New(), Category: "Tecnologia", PriceCeiling: ceiling(100000)}
	result, err := newEngine(catalog).ComputePossibilities(context.Background(), call)
	require.NoError(t, err)

	require.Len(t, result, 1)
	got := result[0]
	assert.Equal(t, a, got.ProviderID)
	assert.Equal(t, call.ID, got.CallID)
	assert.Equal(t, "Tech Solutions Ltda", got.ProviderName)
	assert.Equal(t, "empresa", got.ProviderKind)
	assert.True(t, got.AggregateValue.Equal(decimal.NewFromInt(93000)), got.AggregateValue.String())
	assert.Equal(t, 115, got.Score)
	assert.Len(t, got.Items, 2)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestComputePossibilities_NoCeilingNoBonus(t *testing.T) {
	catalog := newFakeCatalog()
	c := catalog.addProvider("João Silva - Consultor", "pessoa")
	catalog.addItem(c, "Educação", 10, true)
	catalog.addItem(c, "Educação", 999999, true)
	catalog.addItem(c, "Educação", 500, true)

	result, err := newEngine(catalog).ComputePossibilities(context.Background(), Call{ID: uuid.New(), Category: "Educação"})
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, 110, result[0].Score)
	assert.True(t, result[0].AggregateValue.Equal(decimal.NewFromInt(1000509)))
}

func TestComputePossibilities_ScoreIsCapped(t *testing.T) {
	catalog := newFakeCatalog()
	p := catalog.addProvider("Amplo", "empresa")
	for i := 0; i < 8; i++ {
		catalog.addItem(p, "Saúde", 1, true)
	}

	result, err := newEngine(catalog).ComputePossibilities(context.Background(), Call{ID: uuid.New(), Category: "Saúde", PriceCeiling: ceiling(100)})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, MaxScore, result[0].Score)
}

func TestComputePossibilities_ExcludesInactiveAndOtherCategories(t *testing.T) {
	catalog := newFakeCatalog()
	p := catalog.addProvider("Misto", "empresa")
	kept := catalog.addItem(p, "Tecnologia", 100, true)
	catalog.addItem(p, "Tecnologia", 100, false)
	catalog.addItem(p, "Saúde", 100, true)

	result, err := newEngine(catalog).ComputePossibilities(context.Background(), Call{ID: uuid.New(), Category: "Tecnologia"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Len(t, result[0].Items, 1)
	assert.Equal(t, kept.ID, result[0].Items[0].ID)
	assert.Equal(t, BaseScore, result[0].Score)
}

// A store that leaks an inactive or foreign item must not change the result.
type leakyCatalog struct{ *fakeCatalog }

func (l leakyCatalog) ItemsByCategoryActive(ctx context.Context, category string) ([]Item, error) {
	return l.items, nil
}

func TestComputePossibilities_NeverListsInactiveItemsEvenIfStoreLeaksThem(t *testing.T) {
	catalog := newFakeCatalog()
	p := catalog.addProvider("P", "empresa")
	catalog.addItem(p, "Tecnologia", 100, false)
	catalog.addItem(p, "Alimentação", 100, true)

	result, err := newEngine(leakyCatalog{catalog}).ComputePossibilities(context.Background(), Call{ID: uuid.New(), Category: "Tecnologia"})
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestComputePossibilities_EmptyCategoryIsNotAnError(t *testing.T) {
	result, err := newEngine(newFakeCatalog()).ComputePossibilities(context.Background(), Call{ID: uuid.New(), Category: "Alimentação"})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result)
}

func TestComputePossibilities_SkipsMissingProvider(t *testing.T) {
	catalog := newFakeCatalog()
	present := catalog.addProvider("Presente", "empresa")
	catalog.addItem(present, "Transporte e Logística", 10, true)
	catalog.addItem(uuid.New(), "Transporte e Logística", 10, true)

	result, err := newEngine(catalog).ComputePossibilities(context.Background(), Call{ID: uuid.New(), Category: "Transporte e Logística"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, present, result[0].ProviderID)
}

func TestComputePossibilities_RanksByScoreThenProviderID(t *testing.T) {
	catalog := newFakeCatalog()
	one := catalog.addProvider("Um item", "empresa")
	catalog.addItem(one, "Serviços Gerais", 10, true)

	three := catalog.addProvider("Três itens", "empresa")
	for i := 0; i < 3; i++ {
		catalog.addItem(three, "Serviços Gerais", 10, true)
	}

	tiedA := catalog.addProvider("Empate A", "pessoa")
	tiedB := catalog.addProvider("Empate B", "pessoa")
	for _, id := range []uuid.UUID{tiedB, tiedA} {
		catalog.addItem(id, "Serviços Gerais", 10, true)
		catalog.addItem(id, "Serviços Gerais", 10, true)
	}

	result, err := newEngine(catalog).ComputePossibilities(context.Background(), Call{ID: uuid.New(), Category: "Serviços Gerais"})
	require.NoError(t, err)
	require.Len(t, result, 4)

	assert.True(t, sort.SliceIsSorted(result, func(i, j int) bool { return result[i].Score > result[j].Score }))
	assert.Equal(t, three, result[0].ProviderID)
	assert.Equal(t, one, result[3].ProviderID)

	first, second := tiedA, tiedB
	if first.String() > second.String() {
		first, second = second, first
	}
	assert.Equal(t, first, result[1].ProviderID)
	assert.Equal(t, second, result[2].ProviderID)
}

func TestComputePossibilities_AggregateMatchesListedItems(t *testing.T) {
	catalog := newFakeCatalog()
	for i := 0; i < 5; i++ {
		p := catalog.addProvider("P", "empresa")
		for j := 0; j <= i; j++ {
			catalog.addItem(p, "Tecnologia", int64(1000*(j+1)+i), true)
		}
	}

	result, err := newEngine(catalog).ComputePossibilities(context.Background(), Call{ID: uuid.New(), Category: "Tecnologia", PriceCeiling: ceiling(4000)})
	require.NoError(t, err)
	require.NotEmpty(t, result)

	for _, p := range result {
		sum := decimal.Zero
		for _, item := range p.Items {
			assert.True(t, item.Price.LessThanOrEqual(decimal.NewFromInt(4000)))
			sum = sum.Add(item.Price)
		}
		assert.True(t, sum.Equal(p.AggregateValue))
		assert.GreaterOrEqual(t, p.Score, BaseScore)
		assert.LessOrEqual(t, p.Score, MaxScore)
	}
}

func TestComputePossibilities_StoreErrors(t *testing.T) {
	t.Run("items query", func(t *testing.T) {
		catalog := newFakeCatalog()
		catalog.itemsErr = errors.New("connection refused")

		result, err := newEngine(catalog).ComputePossibilities(context.Background(), Call{ID: uuid.New(), Category: "Tecnologia"})
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, apperr.KindUnavailable, apperr.GetKind(err))
	})

	t.Run("provider lookup", func(t *testing.T) {
		catalog := newFakeCatalog()
		p := catalog.addProvider("P", "empresa")
		catalog.addItem(p, "Tecnologia", 1, true)
		catalog.providerErr = errors.New("too many connections")

		result, err := newEngine(catalog).ComputePossibilities(context.Background(), Call{ID: uuid.New(), Category: "Tecnologia"})
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, apperr.KindUnavailable, apperr.GetKind(err))
	})
}

func TestComputePossibilities_TimeoutReturnsNoPartialResult(t *testing.T) {
	catalog := newFakeCatalog()
	p := catalog.addProvider("Lento", "empresa")
	catalog.addItem(p, "Tecnologia", 1, true)
	catalog.block = true

	eng := New(catalog, stubConfig{timeout: 20 * time.Millisecond, maxParallel: 2}, nil)
	result, err := eng.ComputePossibilities(context.Background(), Call{ID: uuid.New(), Category: "Tecnologia"})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, apperr.KindTimeout, apperr.GetKind(err))
}

func TestComputePossibilities_CancelledCaller(t *testing.T) {
	catalog := newFakeCatalog()
	p := catalog.addProvider("P", "empresa")
	catalog.addItem(p, "Tecnologia", 1, true)
	catalog.block = true

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	result, err := newEngine(catalog).ComputePossibilities(ctx, Call{ID: uuid.New(), Category: "Tecnologia"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestComputePossibilities_BoundsProviderFanOut(t *testing.T) {
	catalog := newFakeCatalog()
	for i := 0; i < 20; i++ {
		p := catalog.addProvider("P", "empresa")
		catalog.addItem(p, "Tecnologia", 1, true)
	}

	eng := New(catalog, stubConfig{maxParallel: 3}, nil)
	result, err := eng.ComputePossibilities(context.Background(), Call{ID: uuid.New(), Category: "Tecnologia"})
	require.NoError(t, err)
	assert.Len(t, result, 20)
	assert.LessOrEqual(t, atomic.LoadInt32(&catalog.maxInflight), int32(3))
}

func TestComputePossibilities_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	catalog := newFakeCatalog()
	p := catalog.addProvider("P", "empresa")
	catalog.addItem(p, "Tecnologia", 1, true)
	eng := New(catalog, stubConfig{}, metrics)

	_, err := eng.ComputePossibilities(context.Background(), Call{ID: uuid.New(), Category: "Tecnologia"})
	require.NoError(t, err)

	catalog.itemsErr = errors.New("down")
	_, err = eng.ComputePossibilities(context.Background(), Call{ID: uuid.New(), Category: "Tecnologia"})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.possibilities))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.errors.WithLabelValues("unavailable")))
	var sample dto.Metric
	require.NoError(t, metrics.duration.Write(&sample))
	assert.Equal(t, uint64(2), sample.GetHistogram().GetSampleCount())
}

func TestContains(t *testing.T) {
	id := uuid.New()
	list := []Possibility{{ProviderID: uuid.New()}, {ProviderID: id}}
	assert.True(t, Contains(list, id))
	assert.False(t, Contains(list, uuid.New()))
	assert.False(t, Contains(nil, id))
}
