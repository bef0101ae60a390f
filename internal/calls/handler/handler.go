package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"procurement_backend/internal/calls/service"
	"procurement_backend/internal/calls/transport"
	matchingtransport "procurement_backend/internal/matching/transport"
	"procurement_backend/platform/httpkit"
	"procurement_backend/platform/validator"
)

const (
	msgInvalidRequest        = "Requisição inválida"
	msgInvalidCallID         = "ID de chamada inválido"
	msgCallUpdated           = "Chamada atualizada com sucesso"
	msgCallCreatedNoMatching = "Chamada criada com sucesso. Possibilidades indisponíveis no momento."
	msgCallDeleted           = "Chamada removida com sucesso"
)

// Handler handles HTTP requests for calls.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new call handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the call routes on the /chamadas group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List lists calls filtered by categoria and status.
// GET /api/v1/chamadas
func (h *Handler) List(c *gin.Context) {
	var req transport.ListCallsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, h.val.Messages(err))
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.List(c, len(result), result)
}

// Get retrieves a call with its possibilities.
// GET /api/v1/chamadas/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	call, possibilities, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.CallDetail{
		CallResponse:             call,
		QuantidadePossibilidades: len(possibilities),
		Possibilidades:           matchingtransport.ToPossibilityResponses(possibilities),
	})
}

// Create opens a call and reports the compatible providers found.
// POST /api/v1/chamadas
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	req.Normalize()
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, h.val.Messages(err))
		return
	}

	detail, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	message := fmt.Sprintf("Chamada criada com sucesso. %d possibilidade(s) encontrada(s).", detail.QuantidadePossibilidades)
	if detail.PossibilidadesIndisponiveis {
		message = msgCallCreatedNoMatching
	}
	httpkit.Created(c, message, detail)
}

// Update applies a partial update to a call.
// PUT /api/v1/chamadas/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	req.Normalize()
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, h.val.Messages(err))
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKMessage(c, msgCallUpdated, result)
}

// Delete removes a call and its offers.
// DELETE /api/v1/chamadas/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKMessage(c, msgCallDeleted, nil)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCallID)
		return uuid.Nil, false
	}
	return id, true
}
