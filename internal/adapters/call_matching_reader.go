package adapters

import (
	"context"

	"github.com/google/uuid"

	callrepo "procurement_backend/internal/calls/repository"
	callsvc "procurement_backend/internal/calls/service"
	"procurement_backend/internal/matching/engine"
	"procurement_backend/platform/apperr"
)

// CallMatchingReader adapts the call repository to the engine view of a
// call, for the matching, offers and alerts modules.
type CallMatchingReader struct {
	repo callrepo.Repository
}

// NewCallMatchingReader creates a new call reader adapter.
func NewCallMatchingReader(repo callrepo.Repository) *CallMatchingReader {
	return &CallMatchingReader{repo: repo}
}

var _ engine.CallReader = (*CallMatchingReader)(nil)

// CallByID returns the engine view of a call. A missing call is NotFound;
// other store failures are classified by apperr.FromStore.
func (a *CallMatchingReader) CallByID(ctx context.Context, id uuid.UUID) (engine.Call, error) {
	c, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return engine.Call{}, apperr.FromStore("call by id", err)
	}
	return callsvc.MatchingCall(c), nil
}

// CallsByCategoryStatuses lists the engine view of the calls of a category
// whose status is one of statuses.
func (a *CallMatchingReader) CallsByCategoryStatuses(ctx context.Context, category string, statuses []string) ([]engine.Call, error) {
	calls, err := a.repo.ListByCategoryStatuses(ctx, category, statuses)
	if err != nil {
		return nil, apperr.FromStore("calls by category and status", err)
	}
	out := make([]engine.Call, len(calls))
	for i, c := range calls {
		out[i] = callsvc.MatchingCall(c)
	}
	return out, nil
}
