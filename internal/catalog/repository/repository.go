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
	providerNotFoundMessage = "Prestador não encontrado"
	itemNotFoundMessage     = "Item não encontrado"

	providerColumns = `p.id, p.nome, p.email, p.telefone, p.tipo, p.cnpj, p.cpf, p.categoria, p.created_at, p.updated_at`
	itemColumns     = `i.id, i.prestador_id, i.categoria, i.nome, i.descricao, i.valor_referencia, i.unidade, i.ativo, i.created_at, i.updated_at`
)

// Repo implements the catalog repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProvider(row rowScanner, extra ...any) (Provider, error) {
	var p Provider
	dest := append([]any{
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.Kind, &p.CNPJ, &p.CPF, &p.Category, &p.CreatedAt, &p.UpdatedAt,
	}, extra...)
	err := row.Scan(dest...)
	return p, err
}

func scanItem(row rowScanner, extra ...any) (Item, error) {
	var i Item
	dest := append([]any{
		&i.ID, &i.ProviderID, &i.Category, &i.Name, &i.Description, &i.Price, &i.Unit, &i.Active, &i.CreatedAt, &i.UpdatedAt,
	}, extra...)
	err := row.Scan(dest...)
	return i, err
}

// ListProviders lists providers with their item counts, oldest first.
func (r *Repo) ListProviders(ctx context.Context) ([]ProviderWithCount, error) {
	query := `
		SELECT ` + providerColumns + `, COUNT(i.id)
		FROM prestadores p
		LEFT JOIN itens i ON i.prestador_id = p.id
		GROUP BY p.id
		ORDER BY p.created_at, p.id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()

	out := make([]ProviderWithCount, 0)
	for rows.Next() {
		var count int
		p, err := scanProvider(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		out = append(out, ProviderWithCount{Provider: p, ItemCount: count})
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate providers: %w", rows.Err())
	}
	return out, nil
}

// GetProvider retrieves a provider by ID.
func (r *Repo) GetProvider(ctx context.Context, id uuid.UUID) (Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM prestadores p WHERE p.id = $1`

	p, err := scanProvider(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Provider{}, apperr.NotFound(providerNotFoundMessage)
		}
		return Provider{}, fmt.Errorf("get provider by id: %w", err)
	}
	return p, nil
}

// CreateProvider creates a provider.
func (r *Repo) CreateProvider(ctx context.Context, params CreateProviderParams) (Provider, error) {
	query := `
		INSERT INTO prestadores AS p (nome, email, telefone, tipo, cnpj, cpf, categoria)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + providerColumns

	p, err := scanProvider(r.pool.QueryRow(ctx, query,
		params.Name, params.Email, params.Phone, params.Kind, params.CNPJ, params.CPF, params.Category,
	))
	if err != nil {
		return Provider{}, fmt.Errorf("create provider: %w", err)
	}
	return p, nil
}

// UpdateProvider updates the non-nil fields of a provider.
func (r *Repo) UpdateProvider(ctx context.Context, params UpdateProviderParams) (Provider, error) {
	query := `
		UPDATE prestadores AS p
		SET nome = COALESCE($2, nome),
			email = COALESCE($3, email),
			telefone = COALESCE($4, telefone),
			tipo = COALESCE($5, tipo),
			cnpj = COALESCE($6, cnpj),
			cpf = COALESCE($7, cpf),
			categoria = COALESCE($8, categoria),
			updated_at = now()
		WHERE p.id = $1
		RETURNING ` + providerColumns

	p, err := scanProvider(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Email, params.Phone, params.Kind, params.CNPJ, params.CPF, params.Category,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Provider{}, apperr.NotFound(providerNotFoundMessage)
		}
		return Provider{}, fmt.Errorf("update provider: %w", err)
	}
	return p, nil
}

// DeleteProvider deletes a provider; its items go with it.
func (r *Repo) DeleteProvider(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM prestadores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete provider: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(providerNotFoundMessage)
	}
	return nil
}

// ListItems lists items matching the optional filters, with owner names.
func (r *Repo) ListItems(ctx context.Context, params ListItemsParams) ([]ItemWithProvider, error) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if params.ProviderID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("i.prestador_id = $%d", argIdx))
		args = append(args, *params.ProviderID)
		argIdx++
	}
	if params.Category != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("i.categoria = $%d", argIdx))
		args = append(args, *params.Category)
		argIdx++
	}
	if params.Active != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("i.ativo = $%d", argIdx))
		args = append(args, *params.Active)
	}

	query := fmt.Sprintf(`
		SELECT %s, p.nome
		FROM itens i
		LEFT JOIN prestadores p ON p.id = i.prestador_id
		WHERE %s
		ORDER BY i.created_at, i.id`, itemColumns, strings.Join(whereClauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	out := make([]ItemWithProvider, 0)
	for rows.Next() {
		var providerName *string
		item, err := scanItem(rows, &providerName)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, ItemWithProvider{Item: item, ProviderName: providerName})
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate items: %w", rows.Err())
	}
	return out, nil
}

// GetItem retrieves an item with its owner's name.
func (r *Repo) GetItem(ctx context.Context, id uuid.UUID) (ItemWithProvider, error) {
	query := `
		SELECT ` + itemColumns + `, p.nome
		FROM itens i
		LEFT JOIN prestadores p ON p.id = i.prestador_id
		WHERE i.id = $1`

	var providerName *string
	item, err := scanItem(r.pool.QueryRow(ctx, query, id), &providerName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ItemWithProvider{}, apperr.NotFound(itemNotFoundMessage)
		}
		return ItemWithProvider{}, fmt.Errorf("get item by id: %w", err)
	}
	return ItemWithProvider{Item: item, ProviderName: providerName}, nil
}

// ItemsByProvider lists every item owned by a provider.
func (r *Repo) ItemsByProvider(ctx context.Context, providerID uuid.UUID) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM itens i WHERE i.prestador_id = $1 ORDER BY i.created_at, i.id`
	return r.queryItems(ctx, "items by provider", query, providerID)
}

// ItemsByCategoryActive lists the active items of a category in insertion order.
func (r *Repo) ItemsByCategoryActive(ctx context.Context, category string) ([]Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM itens i
		WHERE i.categoria = $1 AND i.ativo
		ORDER BY i.created_at, i.id`
	return r.queryItems(ctx, "items by category", query, category)
}

func (r *Repo) queryItems(ctx context.Context, op, query string, args ...interface{}) ([]Item, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate items: %w", rows.Err())
	}
	return out, nil
}

// CreateItem creates an item.
func (r *Repo) CreateItem(ctx context.Context, params CreateItemParams) (Item, error) {
	query := `
		INSERT INTO itens AS i (prestador_id, categoria, nome, descricao, valor_referencia, unidade, ativo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + itemColumns

	item, err := scanItem(r.pool.QueryRow(ctx, query,
		params.ProviderID, params.Category, params.Name, params.Description, params.Price, params.Unit, params.Active,
	))
	if err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

// UpdateItem updates the non-nil fields of an item.
func (r *Repo) UpdateItem(ctx context.Context, params UpdateItemParams) (Item, error) {
	query := `
		UPDATE itens AS i
		SET categoria = COALESCE($2, categoria),
			nome = COALESCE($3, nome),
			descricao = COALESCE($4, descricao),
			valor_referencia = COALESCE($5, valor_referencia),
			unidade = COALESCE($6, unidade),
			ativo = COALESCE($7, ativo),
			updated_at = now()
		WHERE i.id = $1
		RETURNING ` + itemColumns

	item, err := scanItem(r.pool.QueryRow(ctx, query,
		params.ID, params.Category, params.Name, params.Description, params.Price, params.Unit, params.Active,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, apperr.NotFound(itemNotFoundMessage)
		}
		return Item{}, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

// DeleteItem deletes an item.
func (r *Repo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM itens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(itemNotFoundMessage)
	}
	return nil
}
