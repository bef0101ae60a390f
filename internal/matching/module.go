// Package matching provides the possibilities module: the matching engine
// and the HTTP endpoints that expose it.
package matching

import (
	apphttp "procurement_backend/internal/http"
	"procurement_backend/internal/matching/engine"
	"procurement_backend/internal/matching/handler"
	"procurement_backend/platform/logger"
)

// Module is the matching module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *engine.Service
}

// NewModule wires the possibilities endpoints around an engine.
func NewModule(eng *engine.Engine, calls engine.CallReader, log *logger.Logger) *Module {
	svc := engine.NewService(eng, calls, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "matching"
}

// Service returns the service layer for external use.
func (m *Module) Service() *engine.Service {
	return m.service
}

// RegisterRoutes mounts the possibilities routes under /chamadas.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/chamadas"))
}

var _ apphttp.Module = (*Module)(nil)
