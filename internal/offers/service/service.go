package service

import (
	"context"

	"procurement_backend/internal/events"
	"procurement_backend/internal/matching/engine"
	"procurement_backend/internal/offers/repository"
	"procurement_backend/internal/offers/transport"
	"procurement_backend/platform/apperr"
	"procurement_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const msgNotEligible = "Este prestador não está habilitado para ofertar nesta chamada (sem compatibilidade de itens)."

// CallReader resolves the engine view of a call; a missing call is NotFound.
type CallReader interface {
	CallByID(ctx context.Context, id uuid.UUID) (engine.Call, error)
}

// ProviderReader resolves provider display names; a missing provider is NotFound.
type ProviderReader interface {
	ProviderName(ctx context.Context, id uuid.UUID) (string, error)
}

// Matcher computes the possibilities of a call.
type Matcher interface {
	ComputePossibilities(ctx context.Context, call engine.Call) ([]engine.Possibility, error)
}

// Service is the offer gate and the offer store behind it.
type Service struct {
	repo      repository.Repository
	calls     CallReader
	providers ProviderReader
	matcher   Matcher
	eventBus  events.Bus
	log       *logger.Logger
}

// New creates a new offer service.
func New(repo repository.Repository, calls CallReader, providers ProviderReader, matcher Matcher, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		calls:     calls,
		providers: providers,
		matcher:   matcher,
		eventBus:  eventBus,
		log:       log,
	}
}

// CanOffer reports whether the provider currently has a possibility for the
// call. The call status is not consulted.
func (s *Service) CanOffer(ctx context.Context, callID, providerID uuid.UUID) (bool, error) {
	call, err := s.calls.CallByID(ctx, callID)
	if err != nil {
		return false, err
	}
	return s.eligible(ctx, call, providerID)
}

func (s *Service) eligible(ctx context.Context, call engine.Call, providerID uuid.UUID) (bool, error) {
	possibilities, err := s.matcher.ComputePossibilities(ctx, call)
	if err != nil {
		return false, err
	}
	return engine.Contains(possibilities, providerID), nil
}

// Create stores an offer once the call and provider exist and the provider
// passes the gate. The gate check and the insert are not atomic.
func (s *Service) Create(ctx context.Context, req transport.CreateOfferRequest) (transport.OfferResponse, error) {
	callID, err := uuid.Parse(req.ChamadaID)
	if err != nil {
		return transport.OfferResponse{}, apperr.BadRequest("ID de chamada inválido")
	}
	providerID, err := uuid.Parse(req.PrestadorID)
	if err != nil {
		return transport.OfferResponse{}, apperr.BadRequest("ID de prestador inválido")
	}

	call, err := s.calls.CallByID(ctx, callID)
	if err != nil {
		return transport.OfferResponse{}, err
	}
	providerName, err := s.providers.ProviderName(ctx, providerID)
	if err != nil {
		return transport.OfferResponse{}, err
	}

	ok, err := s.eligible(ctx, call, providerID)
	if err != nil {
		return transport.OfferResponse{}, err
	}
	if !ok {
		s.log.WithContext(ctx).Info("offer rejected by gate", "chamadaId", callID, "prestadorId", providerID)
		return transport.OfferResponse{}, apperr.Ineligible(msgNotEligible)
	}

	offer, err := s.repo.Create(ctx, repository.CreateParams{
		CallID:       callID,
		ProviderID:   providerID,
		ProviderName: providerName,
		Value:        decimal.NewFromFloat(*req.Valor),
		Description:  req.Descricao,
	})
	if err != nil {
		return transport.OfferResponse{}, err
	}

	s.log.WithContext(ctx).Info("offer submitted", "id", offer.ID, "chamadaId", callID, "prestadorId", providerID)
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.OfferSubmitted{
			BaseEvent:  events.NewBaseEvent(),
			OfferID:    offer.ID,
			CallID:     offer.CallID,
			ProviderID: offer.ProviderID,
			Value:      offer.Value.String(),
		})
	}
	return toOfferResponse(offer), nil
}

// List lists offers filtered by call and provider.
func (s *Service) List(ctx context.Context, req transport.ListOffersRequest) ([]transport.OfferResponse, error) {
	var params repository.ListParams
	if req.ChamadaID != "" {
		id, err := uuid.Parse(req.ChamadaID)
		if err != nil {
			return nil, apperr.BadRequest("ID de chamada inválido")
		}
		params.CallID = &id
	}
	if req.PrestadorID != "" {
		id, err := uuid.Parse(req.PrestadorID)
		if err != nil {
			return nil, apperr.BadRequest("ID de prestador inválido")
		}
		params.ProviderID = &id
	}

	offers, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return toOfferResponses(offers), nil
}

// Get retrieves an offer.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.OfferResponse, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.OfferResponse{}, err
	}
	return toOfferResponse(offer), nil
}

// ListByCall lists a call's offers, cheapest first. A missing call is NotFound.
func (s *Service) ListByCall(ctx context.Context, callID uuid.UUID) ([]transport.OfferResponse, error) {
	if _, err := s.calls.CallByID(ctx, callID); err != nil {
		return nil, err
	}
	offers, err := s.repo.ListByCall(ctx, callID)
	if err != nil {
		return nil, err
	}
	return toOfferResponses(offers), nil
}

func toOfferResponse(o repository.Offer) transport.OfferResponse {
	return transport.OfferResponse{
		ID:            o.ID,
		ChamadaID:     o.CallID,
		PrestadorID:   o.ProviderID,
		PrestadorNome: o.ProviderName,
		Valor:         o.Value.InexactFloat64(),
		Descricao:     o.Description,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toOfferResponses(offers []repository.Offer) []transport.OfferResponse {
	out := make([]transport.OfferResponse, len(offers))
	for i, o := range offers {
		out[i] = toOfferResponse(o)
	}
	return out
}
