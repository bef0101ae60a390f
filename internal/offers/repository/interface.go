package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Offer is a priced bid by a provider on a call (oferta).
type Offer struct {
	ID           uuid.UUID
	CallID       uuid.UUID
	ProviderID   uuid.UUID
	ProviderName string
	Value        decimal.Decimal
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateParams contains data for creating an offer.
type CreateParams struct {
	CallID       uuid.UUID
	ProviderID   uuid.UUID
	ProviderName string
	Value        decimal.Decimal
	Description  string
}

// ListParams defines optional filters for listing offers.
type ListParams struct {
	CallID     *uuid.UUID
	ProviderID *uuid.UUID
}

// Repository is the offer store.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Offer, error)
	GetByID(ctx context.Context, id uuid.UUID) (Offer, error)
	List(ctx context.Context, params ListParams) ([]Offer, error)
	// ListByCall lists a call's offers, cheapest first.
	ListByCall(ctx context.Context, callID uuid.UUID) ([]Offer, error)
}
