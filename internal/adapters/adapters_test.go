package adapters

import (
	"context"
	"errors"
	"fmt"
	"testing"

	callrepo "procurement_backend/internal/calls/repository"
	catrepo "procurement_backend/internal/catalog/repository"
	"procurement_backend/internal/domain"
	"procurement_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogMatchingReader_ItemsByCategoryActive(t *testing.T) {
	ctx := context.Background()
	repo := catrepo.NewMemory()
	provider, err := repo.CreateProvider(ctx, catrepo.CreateProviderParams{Name: "Tech Solutions", Kind: domain.ProviderCompany, Category: "Tecnologia"})
	require.NoError(t, err)

	for _, p := range []catrepo.CreateItemParams{
		{ProviderID: provider.ID, Category: "Tecnologia", Name: "Desenvolvimento", Price: decimal.NewFromInt(150), Unit: "hora", Active: true},
		{ProviderID: provider.ID, Category: "Tecnologia", Name: "Legado", Price: decimal.NewFromInt(90), Unit: "hora", Active: false},
		{ProviderID: provider.ID, Category: "Saúde", Name: "Consulta", Price: decimal.NewFromInt(200), Unit: "unidade", Active: true},
	} {
		_, err := repo.CreateItem(ctx, p)
		require.NoError(t, err)
	}

	items, err := NewCatalogMatchingReader(repo).ItemsByCategoryActive(ctx, "Tecnologia")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Desenvolvimento", items[0].Name)
	assert.Equal(t, provider.ID, items[0].ProviderID)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(150)))
}

func TestCatalogMatchingReader_ProviderByID(t *testing.T) {
	ctx := context.Background()
	repo := catrepo.NewMemory()
	provider, err := repo.CreateProvider(ctx, catrepo.CreateProviderParams{Name: "João Silva", Kind: domain.ProviderIndividual, Category: "Serviços Gerais"})
	require.NoError(t, err)
	reader := NewCatalogMatchingReader(repo)

	got, found, err := reader.ProviderByID(ctx, provider.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "João Silva", got.Name)
	assert.Equal(t, domain.ProviderIndividual, got.Kind)

	_, found, err = reader.ProviderByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, found)

	name, err := reader.ProviderName(ctx, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, "João Silva", name)

	_, err = reader.ProviderName(ctx, uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCallMatchingReader(t *testing.T) {
	ctx := context.Background()
	repo := callrepo.NewMemory()
	ceiling := decimal.NewFromInt(5000)
	open, err := repo.Create(ctx, callrepo.CreateParams{Title: "Reforma", Category: "Construção Civil", Quantity: 1, PriceCeiling: &ceiling, Status: domain.StatusOpen})
	require.NoError(t, err)
	_, err = repo.Create(ctx, callrepo.CreateParams{Title: "Pintura", Category: "Construção Civil", Quantity: 1, Status: domain.StatusClosed})
	require.NoError(t, err)
	reader := NewCallMatchingReader(repo)

	call, err := reader.CallByID(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, "Construção Civil", call.Category)
	require.NotNil(t, call.PriceCeiling)
	assert.True(t, call.PriceCeiling.Equal(ceiling))

	_, err = reader.CallByID(ctx, uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	calls, err := reader.CallsByCategoryStatuses(ctx, "Construção Civil", domain.OfferAcceptingStatuses())
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, open.ID, calls[0].ID)
}

func TestCallMatchingReader_ClassifiesStoreFailures(t *testing.T) {
	ctx := context.Background()
	repo := callrepo.NewMemory()
	reader := NewCallMatchingReader(repo)

	repo.Err = errors.New("connection reset by peer")
	_, err := reader.CallByID(ctx, uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))
	_, err = reader.CallsByCategoryStatuses(ctx, "Tecnologia", domain.OfferAcceptingStatuses())
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))

	repo.Err = fmt.Errorf("query: %w", context.DeadlineExceeded)
	_, err = reader.CallByID(ctx, uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindTimeout))

	repo.Err = apperr.NotFound("Chamada não encontrada")
	_, err = reader.CallByID(ctx, uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
