package handler

import (
	"fmt"
	"net/http"

	"procurement_backend/internal/matching/engine"
	"procurement_backend/internal/matching/transport"
	"procurement_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidCallID = "ID de chamada inválido"

// Handler serves the possibilities of a call.
type Handler struct {
	svc *engine.Service
}

// New creates a new matching handler.
func New(svc *engine.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers routes on the /chamadas group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/possibilidades", h.List)
	rg.POST("/:id/regenerar-possibilidades", h.Regenerate)
}

// List returns the current possibilities of a call, best first.
// GET /api/v1/chamadas/:id/possibilidades
func (h *Handler) List(c *gin.Context) {
	callID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCallID)
		return
	}

	possibilities, err := h.svc.ForCall(c.Request.Context(), callID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.List(c, len(possibilities), transport.ToPossibilityResponses(possibilities))
}

// Regenerate recomputes the possibilities of a call on demand.
// POST /api/v1/chamadas/:id/regenerar-possibilidades
func (h *Handler) Regenerate(c *gin.Context) {
	callID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCallID)
		return
	}

	possibilities, err := h.svc.Regenerate(c.Request.Context(), callID)
	if httpkit.HandleError(c, err) {
		return
	}

	message := fmt.Sprintf("Possibilidades regeneradas. %d encontrada(s).", len(possibilities))
	httpkit.ListMessage(c, message, len(possibilities), transport.ToPossibilityResponses(possibilities))
}
