package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Provider is a registered supplier (prestador).
type Provider struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Kind      string
	CNPJ      *string
	CPF       *string
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProviderWithCount is a provider plus the number of items it owns.
type ProviderWithCount struct {
	Provider
	ItemCount int
}

// Item is a catalog entry offered by a provider.
type Item struct {
	ID          uuid.UUID
	ProviderID  uuid.UUID
	Category    string
	Name        string
	Description string
	Price       decimal.Decimal
	Unit        string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemWithProvider carries the owner's name when the owner still exists.
type ItemWithProvider struct {
	Item
	ProviderName *string
}

// CreateProviderParams contains data for creating a provider.
type CreateProviderParams struct {
	Name     string
	Email    string
	Phone    string
	Kind     string
	CNPJ     *string
	CPF      *string
	Category string
}

// UpdateProviderParams contains data for updating a provider.
// Nil fields are left unchanged.
type UpdateProviderParams struct {
	ID       uuid.UUID
	Name     *string
	Email    *string
	Phone    *string
	Kind     *string
	CNPJ     *string
	CPF      *string
	Category *string
}

// CreateItemParams contains data for creating an item.
type CreateItemParams struct {
	ProviderID  uuid.UUID
	Category    string
	Name        string
	Description string
	Price       decimal.Decimal
	Unit        string
	Active      bool
}

// UpdateItemParams contains data for updating an item.
// Nil fields are left unchanged.
type UpdateItemParams struct {
	ID          uuid.UUID
	Category    *string
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Unit        *string
	Active      *bool
}

// ListItemsParams defines optional filters for listing items.
type ListItemsParams struct {
	ProviderID *uuid.UUID
	Category   *string
	Active     *bool
}

// ProviderReader is the read side of the provider store.
type ProviderReader interface {
	ListProviders(ctx context.Context) ([]ProviderWithCount, error)
	GetProvider(ctx context.Context, id uuid.UUID) (Provider, error)
}

// ProviderWriter is the write side of the provider store.
type ProviderWriter interface {
	CreateProvider(ctx context.Context, params CreateProviderParams) (Provider, error)
	UpdateProvider(ctx context.Context, params UpdateProviderParams) (Provider, error)
	DeleteProvider(ctx context.Context, id uuid.UUID) error
}

// ItemReader is the read side of the item store.
type ItemReader interface {
	ListItems(ctx context.Context, params ListItemsParams) ([]ItemWithProvider, error)
	GetItem(ctx context.Context, id uuid.UUID) (ItemWithProvider, error)
	ItemsByProvider(ctx context.Context, providerID uuid.UUID) ([]Item, error)
	// ItemsByCategoryActive returns active items of a category in insertion order.
	ItemsByCategoryActive(ctx context.Context, category string) ([]Item, error)
}

// ItemWriter is the write side of the item store.
type ItemWriter interface {
	CreateItem(ctx context.Context, params CreateItemParams) (Item, error)
	UpdateItem(ctx context.Context, params UpdateItemParams) (Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

// Repository is the full catalog store.
type Repository interface {
	ProviderReader
	ProviderWriter
	ItemReader
	ItemWriter
}
