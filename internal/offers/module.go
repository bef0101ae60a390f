// Package offers provides the offers (ofertas) bounded context module and
// the gate that only lets compatible providers bid.
package offers

import (
	"procurement_backend/internal/events"
	apphttp "procurement_backend/internal/http"
	"procurement_backend/internal/offers/handler"
	"procurement_backend/internal/offers/repository"
	"procurement_backend/internal/offers/service"
	"procurement_backend/internal/offers/transport"
	"procurement_backend/platform/logger"
	"procurement_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the offers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the offers module.
func NewModule(
	pool *pgxpool.Pool,
	calls service.CallReader,
	providers service.ProviderReader,
	matcher service.Matcher,
	eventBus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	transport.RegisterMessages(val)
	svc := service.New(repository.New(pool), calls, providers, matcher, eventBus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "offers"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts /ofertas and /chamadas/:id/ofertas.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/ofertas"))
	m.handler.RegisterCallRoutes(ctx.Protected.Group("/chamadas"))
}

var _ apphttp.Module = (*Module)(nil)
