package engine

import (
	"context"

	"procurement_backend/platform/logger"

	"github.com/google/uuid"
)

// CallReader resolves calls. A missing call is reported as an
// apperr NotFound error.
type CallReader interface {
	CallByID(ctx context.Context, id uuid.UUID) (Call, error)
}

// Service exposes possibilities by call id.
type Service struct {
	engine *Engine
	calls  CallReader
	log    *logger.Logger
}

// NewService creates a matching service.
func NewService(engine *Engine, calls CallReader, log *logger.Logger) *Service {
	return &Service{engine: engine, calls: calls, log: log}
}

// Engine returns the underlying engine.
func (s *Service) Engine() *Engine {
	return s.engine
}

// ForCall loads the call and computes its possibilities.
func (s *Service) ForCall(ctx context.Context, callID uuid.UUID) ([]Possibility, error) {
	call, err := s.calls.CallByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	return s.engine.ComputePossibilities(ctx, call)
}

// Regenerate recomputes the possibilities of a call on explicit request.
// Possibilities are never cached, so this is ForCall plus an audit log line.
func (s *Service) Regenerate(ctx context.Context, callID uuid.UUID) ([]Possibility, error) {
	possibilities, err := s.ForCall(ctx, callID)
	if err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Info("possibilities regenerated", "chamadaId", callID, "count", len(possibilities))
	return possibilities, nil
}
