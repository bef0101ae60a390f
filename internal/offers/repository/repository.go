package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"procurement_backend/platform/apperr"
)

const (
	offerNotFoundMessage = "Oferta não encontrada"

	offerColumns = `id, chamada_id, prestador_id, prestador_nome, valor, descricao, created_at, updated_at`
)

// Repo implements the offer repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new offer repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOffer(row rowScanner) (Offer, error) {
	var o Offer
	err := row.Scan(&o.ID, &o.CallID, &o.ProviderID, &o.ProviderName, &o.Value, &o.Description, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// Create stores an offer.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Offer, error) {
	query := `
		INSERT INTO ofertas (chamada_id, prestador_id, prestador_nome, valor, descricao)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + offerColumns

	o, err := scanOffer(r.pool.QueryRow(ctx, query,
		params.CallID, params.ProviderID, params.ProviderName, params.Value, params.Description,
	))
	if err != nil {
		return Offer{}, fmt.Errorf("create offer: %w", err)
	}
	return o, nil
}

// GetByID retrieves an offer by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Offer, error) {
	o, err := scanOffer(r.pool.QueryRow(ctx, `SELECT `+offerColumns+` FROM ofertas WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offer{}, apperr.NotFound(offerNotFoundMessage)
		}
		return Offer{}, fmt.Errorf("get offer by id: %w", err)
	}
	return o, nil
}

// List lists offers matching the optional filters, oldest first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Offer, error) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if params.CallID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("chamada_id = $%d", argIdx))
		args = append(args, *params.CallID)
		argIdx++
	}
	if params.ProviderID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("prestador_id = $%d", argIdx))
		args = append(args, *params.ProviderID)
	}

	query := fmt.Sprintf(`SELECT %s FROM ofertas WHERE %s ORDER BY created_at, id`,
		offerColumns, strings.Join(whereClauses, " AND "))
	return r.queryOffers(ctx, "list offers", query, args...)
}

// ListByCall lists the offers of a call by ascending value.
func (r *Repo) ListByCall(ctx context.Context, callID uuid.UUID) ([]Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM ofertas WHERE chamada_id = $1 ORDER BY valor, created_at, id`
	return r.queryOffers(ctx, "list offers by call", query, callID)
}

func (r *Repo) queryOffers(ctx context.Context, op, query string, args ...interface{}) ([]Offer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]Offer, 0)
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		out = append(out, o)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate offers: %w", rows.Err())
	}
	return out, nil
}
