package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"procurement_backend/platform/apperr"
)

const (
	callNotFoundMessage = "Chamada não encontrada"

	callColumns = `id, titulo, descricao, categoria, quantidade, valor_maximo, prazo_execucao, status, created_at, updated_at`
)

// Repo implements the call repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new call repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCall(row rowScanner) (Call, error) {
	var c Call
	var ceiling decimal.NullDecimal
	if err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Category, &c.Quantity, &ceiling, &c.Deadline, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return Call{}, err
	}
	if ceiling.Valid {
		c.PriceCeiling = &ceiling.Decimal
	}
	return c, nil
}

func (r *Repo) queryCalls(ctx context.Context, op, query string, args ...interface{}) ([]Call, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]Call, 0)
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate calls: %w", rows.Err())
	}
	return out, nil
}

// List lists calls matching the optional filters, oldest first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Call, error) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if params.Category != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("categoria = $%d", argIdx))
		args = append(args, *params.Category)
		argIdx++
	}
	if params.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
	}

	query := fmt.Sprintf(`SELECT %s FROM chamadas WHERE %s ORDER BY created_at, id`,
		callColumns, strings.Join(whereClauses, " AND "))
	return r.queryCalls(ctx, "list calls", query, args...)
}

// GetByID retrieves a call by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Call, error) {
	query := `SELECT ` + callColumns + ` FROM chamadas WHERE id = $1`

	c, err := scanCall(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Call{}, apperr.NotFound(callNotFoundMessage)
		}
		return Call{}, fmt.Errorf("get call by id: %w", err)
	}
	return c, nil
}

// ListByCategoryStatuses lists calls of a category in any of the statuses.
func (r *Repo) ListByCategoryStatuses(ctx context.Context, category string, statuses []string) ([]Call, error) {
	query := `
		SELECT ` + callColumns + `
		FROM chamadas
		WHERE categoria = $1 AND status = ANY($2)
		ORDER BY created_at, id`
	return r.queryCalls(ctx, "list calls by category", query, category, statuses)
}

// Create creates a call.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Call, error) {
	query := `
		INSERT INTO chamadas (titulo, descricao, categoria, quantidade, valor_maximo, prazo_execucao, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + callColumns

	c, err := scanCall(r.pool.QueryRow(ctx, query,
		params.Title, params.Description, params.Category, params.Quantity,
		params.PriceCeiling, params.Deadline, params.Status,
	))
	if err != nil {
		return Call{}, fmt.Errorf("create call: %w", err)
	}
	return c, nil
}

// Update updates the non-nil fields of a call.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Call, error) {
	query := `
		UPDATE chamadas
		SET titulo = COALESCE($2, titulo),
			descricao = COALESCE($3, descricao),
			categoria = COALESCE($4, categoria),
			quantidade = COALESCE($5, quantidade),
			valor_maximo = COALESCE($6, valor_maximo),
			prazo_execucao = COALESCE($7, prazo_execucao),
			status = COALESCE($8, status),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + callColumns

	c, err := scanCall(r.pool.QueryRow(ctx, query,
		params.ID, params.Title, params.Description, params.Category, params.Quantity,
		params.PriceCeiling, params.Deadline, params.Status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Call{}, apperr.NotFound(callNotFoundMessage)
		}
		return Call{}, fmt.Errorf("update call: %w", err)
	}
	return c, nil
}

// Delete removes a call and, in cascade, its offers.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM chamadas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete call: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(callNotFoundMessage)
	}
	return nil
}
