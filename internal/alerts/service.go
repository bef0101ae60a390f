package alerts

import (
	"context"
	"fmt"

	"procurement_backend/internal/domain"
	"procurement_backend/internal/matching/engine"
	"procurement_backend/platform/apperr"
	"procurement_backend/platform/logger"

	"github.com/google/uuid"
)

// CallLister is the call access the alert jobs need.
type CallLister interface {
	CallByID(ctx context.Context, id uuid.UUID) (engine.Call, error)
	CallsByCategoryStatuses(ctx context.Context, category string, statuses []string) ([]engine.Call, error)
}

// Matcher computes the possibilities of a call.
type Matcher interface {
	ComputePossibilities(ctx context.Context, call engine.Call) ([]engine.Possibility, error)
}

// Service recomputes possibilities in the background and logs one match
// alert per compatible provider.
type Service struct {
	calls   CallLister
	matcher Matcher
	log     *logger.Logger
}

// NewService creates an alert service.
func NewService(calls CallLister, matcher Matcher, log *logger.Logger) *Service {
	return &Service{calls: calls, matcher: matcher, log: log.WithComponent("alerts")}
}

// RefreshForItem recomputes every call of category that still accepts
// offers and returns how many calls were refreshed.
func (s *Service) RefreshForItem(ctx context.Context, category string) (int, error) {
	calls, err := s.calls.CallsByCategoryStatuses(ctx, category, domain.OfferAcceptingStatuses())
	if err != nil {
		return 0, fmt.Errorf("list calls for %q: %w", category, err)
	}

	log := s.log.WithContext(ctx)
	log.Info("item changed, refreshing calls", "categoria", category, "chamadas", len(calls))

	for _, call := range calls {
		if _, err := s.alert(ctx, call); err != nil {
			return 0, err
		}
	}
	return len(calls), nil
}

// AlertCall recomputes one call and returns the number of alerts logged.
// Calls that were removed or no longer accept offers are skipped.
func (s *Service) AlertCall(ctx context.Context, callID uuid.UUID) (int, error) {
	call, err := s.calls.CallByID(ctx, callID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.log.WithContext(ctx).Debug("call gone before alert", "chamadaId", callID)
			return 0, nil
		}
		return 0, err
	}
	if !domain.AcceptsOffers(call.Status) {
		return 0, nil
	}
	return s.alert(ctx, call)
}

func (s *Service) alert(ctx context.Context, call engine.Call) (int, error) {
	possibilities, err := s.matcher.ComputePossibilities(ctx, call)
	if err != nil {
		return 0, fmt.Errorf("compute possibilities for %s: %w", call.ID, err)
	}

	log := s.log.WithContext(ctx)
	for _, p := range possibilities {
		log.MatchAlert(call.ID.String(), p.ProviderID.String(), p.ProviderName, p.Score, len(p.Items))
	}
	return len(possibilities), nil
}
