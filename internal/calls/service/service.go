package service

import (
	"context"
	"time"

	"procurement_backend/internal/calls/repository"
	"procurement_backend/internal/calls/transport"
	"procurement_backend/internal/domain"
	"procurement_backend/internal/events"
	"procurement_backend/internal/matching/engine"
	matchingtransport "procurement_backend/internal/matching/transport"
	"procurement_backend/platform/apperr"
	"procurement_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// summaryParallelism bounds concurrent possibility counts in List.
const summaryParallelism = 4

// Matcher computes the possibilities of a call.
type Matcher interface {
	ComputePossibilities(ctx context.Context, call engine.Call) ([]engine.Possibility, error)
}

// Service provides business logic for calls.
type Service struct {
	repo     repository.Repository
	matcher  Matcher
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new call service.
func New(repo repository.Repository, matcher Matcher, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, matcher: matcher, eventBus: eventBus, log: log}
}

// MatchingCall projects a stored call onto the engine's input.
func MatchingCall(c repository.Call) engine.Call {
	return engine.Call{
		ID:           c.ID,
		Category:     c.Category,
		PriceCeiling: c.PriceCeiling,
		Status:       c.Status,
	}
}

// List lists calls with their possibility counts.
func (s *Service) List(ctx context.Context, req transport.ListCallsRequest) ([]transport.CallSummary, error) {
	var params repository.ListParams
	if req.Categoria != "" {
		category := domain.NormalizeCategory(req.Categoria)
		params.Category = &category
	}
	if req.Status != "" {
		params.Status = &req.Status
	}

	calls, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]transport.CallSummary, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryParallelism)
	for i, c := range calls {
		g.Go(func() error {
			possibilities, err := s.matcher.ComputePossibilities(gctx, MatchingCall(c))
			if err != nil {
				return err
			}
			out[i] = transport.CallSummary{
				CallResponse:             toCallResponse(c),
				QuantidadePossibilidades: len(possibilities),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get retrieves a call with its current possibilities.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.CallResponse, []engine.Possibility, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.CallResponse{}, nil, err
	}
	possibilities, err := s.matcher.ComputePossibilities(ctx, MatchingCall(c))
	if err != nil {
		return transport.CallResponse{}, nil, err
	}
	return toCallResponse(c), possibilities, nil
}

// CallByID returns the engine view of a call.
func (s *Service) CallByID(ctx context.Context, id uuid.UUID) (engine.Call, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return engine.Call{}, err
	}
	return MatchingCall(c), nil
}

// Create stores a call and returns it with the possibilities found at
// creation time. CallCreated is published once the call is stored; a
// matching failure after that leaves the call in place and is reported
// through PossibilidadesIndisponiveis.
func (s *Service) Create(ctx context.Context, req transport.CreateCallRequest) (transport.CallDetail, error) {
	deadline, err := parseDate(req.PrazoExecucao)
	if err != nil {
		return transport.CallDetail{}, err
	}

	quantity := 1
	if req.Quantidade != nil {
		quantity = *req.Quantidade
	}
	status := req.Status
	if status == "" {
		status = domain.StatusOpen
	}

	c, err := s.repo.Create(ctx, repository.CreateParams{
		Title:        req.Titulo,
		Description:  req.Descricao,
		Category:     req.Categoria,
		Quantity:     quantity,
		PriceCeiling: toDecimal(req.ValorMaximo),
		Deadline:     deadline,
		Status:       status,
	})
	if err != nil {
		return transport.CallDetail{}, err
	}
	s.publish(ctx, events.CallCreated{BaseEvent: events.NewBaseEvent(), CallID: c.ID, Category: c.Category})

	detail := transport.CallDetail{CallResponse: toCallResponse(c)}
	possibilities, ok := s.possibilitiesAfterWrite(ctx, c)
	if !ok {
		detail.PossibilidadesIndisponiveis = true
		detail.Possibilidades = []matchingtransport.PossibilityResponse{}
		return detail, nil
	}

	s.log.WithContext(ctx).Info("call created", "id", c.ID, "categoria", c.Category, "possibilidades", len(possibilities))
	detail.QuantidadePossibilidades = len(possibilities)
	detail.Possibilidades = matchingtransport.ToPossibilityResponses(possibilities)
	return detail, nil
}

// Update applies a partial update and returns the call with its
// possibility count. CallUpdated is published when a matching input
// changes, before matching runs.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateCallRequest) (transport.CallSummary, error) {
	var deadline *time.Time
	if req.PrazoExecucao != nil {
		parsed, err := parseDate(*req.PrazoExecucao)
		if err != nil {
			return transport.CallSummary{}, err
		}
		deadline = parsed
	}

	c, err := s.repo.Update(ctx, repository.UpdateParams{
		ID:           id,
		Title:        req.Titulo,
		Description:  req.Descricao,
		Category:     req.Categoria,
		Quantity:     req.Quantidade,
		PriceCeiling: toDecimal(req.ValorMaximo),
		Deadline:     deadline,
		Status:       req.Status,
	})
	if err != nil {
		return transport.CallSummary{}, err
	}
	if req.AffectsMatching() {
		s.publish(ctx, events.CallUpdated{BaseEvent: events.NewBaseEvent(), CallID: c.ID, Category: c.Category})
	}

	summary := transport.CallSummary{CallResponse: toCallResponse(c)}
	possibilities, ok := s.possibilitiesAfterWrite(ctx, c)
	if !ok {
		summary.PossibilidadesIndisponiveis = true
		return summary, nil
	}

	s.log.WithContext(ctx).Info("call updated", "id", c.ID, "status", c.Status)
	summary.QuantidadePossibilidades = len(possibilities)
	return summary, nil
}

// possibilitiesAfterWrite matches a call that is already stored. Failures
// are logged and reported as not ok so the write is not undone or retried.
func (s *Service) possibilitiesAfterWrite(ctx context.Context, c repository.Call) ([]engine.Possibility, bool) {
	possibilities, err := s.matcher.ComputePossibilities(ctx, MatchingCall(c))
	if err != nil {
		s.log.WithContext(ctx).Warn("possibilities unavailable after write", "id", c.ID, "kind", apperr.GetKind(err), "error", err)
		return nil, false
	}
	return possibilities, true
}

// Delete removes a call and its offers.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithContext(ctx).Info("call deleted", "id", id)
	s.publish(ctx, events.CallDeleted{BaseEvent: events.NewBaseEvent(), CallID: id})
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, event)
	}
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(transport.DateLayout, value)
	if err != nil {
		return nil, apperr.Validation("Dados inválidos").WithDetails([]string{`O campo "prazoExecucao" deve seguir o formato AAAA-MM-DD`})
	}
	return &parsed, nil
}

func toDecimal(value *float64) *decimal.Decimal {
	if value == nil {
		return nil
	}
	d := decimal.NewFromFloat(*value)
	return &d
}

func toCallResponse(c repository.Call) transport.CallResponse {
	resp := transport.CallResponse{
		ID:         c.ID,
		Titulo:     c.Title,
		Descricao:  c.Description,
		Categoria:  c.Category,
		Quantidade: c.Quantity,
		Status:     c.Status,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	if c.PriceCeiling != nil {
		v := c.PriceCeiling.InexactFloat64()
		resp.ValorMaximo = &v
	}
	if c.Deadline != nil {
		d := c.Deadline.Format(transport.DateLayout)
		resp.PrazoExecucao = &d
	}
	return resp
}
