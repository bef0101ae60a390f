package service

import (
	"context"

	"procurement_backend/internal/catalog/repository"
	"procurement_backend/internal/catalog/transport"
	"procurement_backend/internal/domain"
	"procurement_backend/internal/events"
	"procurement_backend/platform/apperr"
	"procurement_backend/platform/logger"
	"procurement_backend/platform/phone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	unknownProviderName = "Desconhecido"
	msgInvalidData      = "Dados inválidos"
	msgProviderNotFound = "Prestador não encontrado"
)

// Service provides business logic for providers and their items.
type Service struct {
	repo     repository.Repository
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log}
}

// ListProviders lists every provider with its item count.
func (s *Service) ListProviders(ctx context.Context) ([]transport.ProviderListEntry, error) {
	providers, err := s.repo.ListProviders(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transport.ProviderListEntry, len(providers))
	for i, p := range providers {
		out[i] = transport.ProviderListEntry{
			ProviderResponse: toProviderResponse(p.Provider),
			QuantidadeItens:  p.ItemCount,
		}
	}
	return out, nil
}

// GetProvider retrieves a provider together with its items.
func (s *Service) GetProvider(ctx context.Context, id uuid.UUID) (transport.ProviderDetail, error) {
	provider, err := s.repo.GetProvider(ctx, id)
	if err != nil {
		return transport.ProviderDetail{}, err
	}
	items, err := s.repo.ItemsByProvider(ctx, id)
	if err != nil {
		return transport.ProviderDetail{}, err
	}
	return transport.ProviderDetail{
		ProviderResponse: toProviderResponse(provider),
		Itens:            toItemResponses(items),
	}, nil
}

// CreateProvider registers a provider. The request must be normalized and
// validated by the caller.
func (s *Service) CreateProvider(ctx context.Context, req transport.CreateProviderRequest) (transport.ProviderResponse, error) {
	if errs := req.DocumentErrors(); len(errs) > 0 {
		return transport.ProviderResponse{}, apperr.Validation(msgInvalidData).WithDetails(errs)
	}

	provider, err := s.repo.CreateProvider(ctx, repository.CreateProviderParams{
		Name:     req.Nome,
		Email:    req.Email,
		Phone:    phone.NormalizeE164(req.Telefone),
		Kind:     req.Tipo,
		CNPJ:     req.CNPJ,
		CPF:      req.CPF,
		Category: req.Categoria,
	})
	if err != nil {
		return transport.ProviderResponse{}, err
	}

	s.log.WithContext(ctx).Info("provider created", "id", provider.ID, "tipo", provider.Kind)
	return toProviderResponse(provider), nil
}

// UpdateProvider applies a partial update. The tax document rule is checked
// against the merged result.
func (s *Service) UpdateProvider(ctx context.Context, id uuid.UUID, req transport.UpdateProviderRequest) (transport.ProviderResponse, error) {
	existing, err := s.repo.GetProvider(ctx, id)
	if err != nil {
		return transport.ProviderResponse{}, err
	}

	kind := existing.Kind
	if req.Tipo != nil {
		kind = *req.Tipo
	}
	cnpj, cpf := existing.CNPJ, existing.CPF
	if req.CNPJ != nil {
		cnpj = req.CNPJ
	}
	if req.CPF != nil {
		cpf = req.CPF
	}
	if errs := transport.DocumentErrors(kind, cnpj, cpf); len(errs) > 0 {
		return transport.ProviderResponse{}, apperr.Validation(msgInvalidData).WithDetails(errs)
	}

	var phoneNumber *string
	if req.Telefone != nil {
		normalized := phone.NormalizeE164(*req.Telefone)
		phoneNumber = &normalized
	}

	provider, err := s.repo.UpdateProvider(ctx, repository.UpdateProviderParams{
		ID:       id,
		Name:     req.Nome,
		Email:    req.Email,
		Phone:    phoneNumber,
		Kind:     req.Tipo,
		CNPJ:     req.CNPJ,
		CPF:      req.CPF,
		Category: req.Categoria,
	})
	if err != nil {
		return transport.ProviderResponse{}, err
	}

	s.log.WithContext(ctx).Info("provider updated", "id", provider.ID)
	return toProviderResponse(provider), nil
}

// DeleteProvider removes a provider and, in cascade, its items.
func (s *Service) DeleteProvider(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProvider(ctx, id); err != nil {
		return err
	}
	s.log.WithContext(ctx).Info("provider deleted", "id", id)
	return nil
}

// ListItems lists items matching the request filters.
func (s *Service) ListItems(ctx context.Context, req transport.ListItemsRequest) ([]transport.ItemWithProviderResponse, error) {
	var params repository.ListItemsParams
	if req.PrestadorID != "" {
		id, err := uuid.Parse(req.PrestadorID)
		if err != nil {
			return nil, apperr.BadRequest("ID de prestador inválido")
		}
		params.ProviderID = &id
	}
	if req.Categoria != "" {
		category := domain.NormalizeCategory(req.Categoria)
		params.Category = &category
	}
	switch req.Ativo {
	case "true":
		active := true
		params.Active = &active
	case "false":
		active := false
		params.Active = &active
	}

	items, err := s.repo.ListItems(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]transport.ItemWithProviderResponse, len(items))
	for i, item := range items {
		out[i] = toItemWithProviderResponse(item)
	}
	return out, nil
}

// GetItem retrieves an item with its owner's name.
func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (transport.ItemWithProviderResponse, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return transport.ItemWithProviderResponse{}, err
	}
	return toItemWithProviderResponse(item), nil
}

// CreateItem adds an item to an existing provider's catalog.
func (s *Service) CreateItem(ctx context.Context, req transport.CreateItemRequest) (transport.ItemResponse, error) {
	if _, err := s.repo.GetProvider(ctx, req.PrestadorID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.ItemResponse{}, apperr.Validation(msgInvalidData).WithDetails([]string{msgProviderNotFound})
		}
		return transport.ItemResponse{}, err
	}

	unit := req.Unidade
	if unit == "" {
		unit = domain.DefaultUnit
	}
	active := true
	if req.Ativo != nil {
		active = *req.Ativo
	}

	item, err := s.repo.CreateItem(ctx, repository.CreateItemParams{
		ProviderID:  req.PrestadorID,
		Category:    req.Categoria,
		Name:        req.Nome,
		Description: req.Descricao,
		Price:       decimal.NewFromFloat(*req.ValorReferencia),
		Unit:        unit,
		Active:      active,
	})
	if err != nil {
		return transport.ItemResponse{}, err
	}

	s.log.WithContext(ctx).Info("item created", "id", item.ID, "prestadorId", item.ProviderID, "categoria", item.Category)
	s.publishItemChanged(ctx, item, true)
	return toItemResponse(item), nil
}

// UpdateItem applies a partial update to an item.
func (s *Service) UpdateItem(ctx context.Context, id uuid.UUID, req transport.UpdateItemRequest) (transport.ItemResponse, error) {
	var price *decimal.Decimal
	if req.ValorReferencia != nil {
		p := decimal.NewFromFloat(*req.ValorReferencia)
		price = &p
	}

	item, err := s.repo.UpdateItem(ctx, repository.UpdateItemParams{
		ID:          id,
		Category:    req.Categoria,
		Name:        req.Nome,
		Description: req.Descricao,
		Price:       price,
		Unit:        req.Unidade,
		Active:      req.Ativo,
	})
	if err != nil {
		return transport.ItemResponse{}, err
	}

	s.log.WithContext(ctx).Info("item updated", "id", item.ID, "categoria", item.Category, "ativo", item.Active)
	s.publishItemChanged(ctx, item, false)
	return toItemResponse(item), nil
}

// DeleteItem removes an item.
func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.log.WithContext(ctx).Info("item deleted", "id", id)
	return nil
}

func (s *Service) publishItemChanged(ctx context.Context, item repository.Item, created bool) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, events.ItemChanged{
		BaseEvent:  events.NewBaseEvent(),
		ItemID:     item.ID,
		ProviderID: item.ProviderID,
		Category:   item.Category,
		Name:       item.Name,
		Active:     item.Active,
		WasCreated: created,
	})
}

func toProviderResponse(p repository.Provider) transport.ProviderResponse {
	return transport.ProviderResponse{
		ID:        p.ID,
		Nome:      p.Name,
		Email:     p.Email,
		Telefone:  p.Phone,
		Tipo:      p.Kind,
		CNPJ:      p.CNPJ,
		CPF:       p.CPF,
		Categoria: p.Category,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toItemResponse(i repository.Item) transport.ItemResponse {
	return transport.ItemResponse{
		ID:              i.ID,
		PrestadorID:     i.ProviderID,
		Categoria:       i.Category,
		Nome:            i.Name,
		Descricao:       i.Description,
		ValorReferencia: i.Price.InexactFloat64(),
		Unidade:         i.Unit,
		Ativo:           i.Active,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

func toItemResponses(items []repository.Item) []transport.ItemResponse {
	out := make([]transport.ItemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	return out
}

func toItemWithProviderResponse(i repository.ItemWithProvider) transport.ItemWithProviderResponse {
	name := unknownProviderName
	if i.ProviderName != nil {
		name = *i.ProviderName
	}
	return transport.ItemWithProviderResponse{
		ItemResponse:  toItemResponse(i.Item),
		PrestadorNome: name,
	}
}
