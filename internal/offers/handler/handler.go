package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"procurement_backend/internal/offers/service"
	"procurement_backend/internal/offers/transport"
	"procurement_backend/platform/httpkit"
	"procurement_backend/platform/validator"
)

const (
	msgInvalidRequest = "Requisição inválida"
	msgInvalidOfferID = "ID de oferta inválido"
	msgInvalidCallID  = "ID de chamada inválido"
	msgOfferCreated   = "Oferta enviada com sucesso"
)

// Handler handles HTTP requests for offers.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new offer handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the /ofertas routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
}

// RegisterCallRoutes mounts the nested /chamadas/:id/ofertas route.
func (h *Handler) RegisterCallRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/ofertas", h.ListByCall)
}

// Create submits an offer through the gate.
// POST /api/v1/ofertas
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	req.Normalize()
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, h.val.Messages(err))
		return
	}

	if providerID, err := uuid.Parse(req.PrestadorID); err == nil && !httpkit.CanActFor(c, providerID) {
		httpkit.Error(c, http.StatusForbidden, httpkit.MsgForbidden)
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, msgOfferCreated, result)
}

// List lists offers filtered by chamadaId and prestadorId.
// GET /api/v1/ofertas
func (h *Handler) List(c *gin.Context) {
	var req transport.ListOffersRequest
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

// Get retrieves an offer.
// GET /api/v1/ofertas/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidOfferID)
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListByCall lists a call's offers, cheapest first.
// GET /api/v1/chamadas/:id/ofertas
func (h *Handler) ListByCall(c *gin.Context) {
	callID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCallID)
		return
	}

	result, err := h.svc.ListByCall(c.Request.Context(), callID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.List(c, len(result), result)
}
