// Package calls provides the calls (chamadas) bounded context module.
package calls

import (
	"procurement_backend/internal/calls/handler"
	"procurement_backend/internal/calls/repository"
	"procurement_backend/internal/calls/service"
	"procurement_backend/internal/events"
	apphttp "procurement_backend/internal/http"
	"procurement_backend/platform/logger"
	"procurement_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the calls bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates the calls module. The matcher is usually the shared
// matching engine.
func NewModule(pool *pgxpool.Pool, matcher service.Matcher, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, matcher, eventBus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "calls"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for the alerts adapter.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts the call routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/chamadas"))
}

var _ apphttp.Module = (*Module)(nil)
