// Package catalog provides the catalog bounded context module: providers
// (prestadores) and the items they offer.
package catalog

import (
	"procurement_backend/internal/catalog/handler"
	"procurement_backend/internal/catalog/repository"
	"procurement_backend/internal/catalog/service"
	"procurement_backend/internal/events"
	apphttp "procurement_backend/internal/http"
	"procurement_backend/platform/logger"
	"procurement_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for the matching adapters.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts the provider and item routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterProviderRoutes(ctx.Protected.Group("/prestadores"))
	m.handler.RegisterItemRoutes(ctx.Protected.Group("/itens"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
