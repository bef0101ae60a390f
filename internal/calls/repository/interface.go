package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Call is a procurement request (chamada).
type Call struct {
	ID           uuid.UUID
	Title        string
	Description  string
	Category     string
	Quantity     int
	PriceCeiling *decimal.Decimal
	Deadline     *time.Time
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateParams contains data for creating a call.
type CreateParams struct {
	Title        string
	Description  string
	Category     string
	Quantity     int
	PriceCeiling *decimal.Decimal
	Deadline     *time.Time
	Status       string
}

// UpdateParams contains data for updating a call. Nil fields are left unchanged.
type UpdateParams struct {
	ID           uuid.UUID
	Title        *string
	Description  *string
	Category     *string
	Quantity     *int
	PriceCeiling *decimal.Decimal
	Deadline     *time.Time
	Status       *string
}

// ListParams defines optional filters for listing calls.
type ListParams struct {
	Category *string
	Status   *string
}

// Repository is the call store.
type Repository interface {
	List(ctx context.Context, params ListParams) ([]Call, error)
	GetByID(ctx context.Context, id uuid.UUID) (Call, error)
	// ListByCategoryStatuses lists the calls of a category whose status is
	// one of statuses, oldest first.
	ListByCategoryStatuses(ctx context.Context, category string, statuses []string) ([]Call, error)
	Create(ctx context.Context, params CreateParams) (Call, error)
	Update(ctx context.Context, params UpdateParams) (Call, error)
	// Delete removes a call; its offers are removed in cascade.
	Delete(ctx context.Context, id uuid.UUID) error
}
