package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"procurement_backend/internal/catalog/service"
	"procurement_backend/internal/catalog/transport"
	"procurement_backend/internal/domain"
	"procurement_backend/platform/httpkit"
	"procurement_backend/platform/validator"
)

// Handler handles HTTP requests for providers and items.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest    = "Requisição inválida"
	msgInvalidProviderID = "ID de prestador inválido"
	msgInvalidItemID     = "ID de item inválido"

	msgProviderCreated = "Prestador criado com sucesso"
	msgProviderUpdated = "Prestador atualizado com sucesso"
	msgProviderDeleted = "Prestador removido com sucesso"
	msgItemCreated     = "Item criado com sucesso"
	msgItemUpdated     = "Item atualizado com sucesso"
	msgItemDeleted     = "Item removido com sucesso"
)

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterProviderRoutes mounts the /prestadores routes.
func (h *Handler) RegisterProviderRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListProviders)
	rg.GET("/:id", h.GetProvider)
	rg.POST("", h.CreateProvider)
	rg.PUT("/:id", h.UpdateProvider)
	rg.DELETE("/:id", h.DeleteProvider)
}

// RegisterItemRoutes mounts the /itens routes.
func (h *Handler) RegisterItemRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListItems)
	rg.GET("/categorias", h.ListCategories)
	rg.GET("/unidades", h.ListUnits)
	rg.GET("/:id", h.GetItem)
	rg.POST("", h.CreateItem)
	rg.PUT("/:id", h.UpdateItem)
	rg.DELETE("/:id", h.DeleteItem)
}

// ListProviders lists providers with their item counts.
// GET /api/v1/prestadores
func (h *Handler) ListProviders(c *gin.Context) {
	result, err := h.svc.ListProviders(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.List(c, len(result), result)
}

// GetProvider retrieves a provider and its items.
// GET /api/v1/prestadores/:id
func (h *Handler) GetProvider(c *gin.Context) {
	id, ok := parseID(c, msgInvalidProviderID)
	if !ok {
		return
	}

	result, err := h.svc.GetProvider(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateProvider registers a provider.
// POST /api/v1/prestadores
func (h *Handler) CreateProvider(c *gin.Context) {
	var req transport.CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	req.Normalize()

	var messages []string
	if err := h.val.Struct(req); err != nil {
		messages = h.val.Messages(err)
	}
	messages = append(messages, req.DocumentErrors()...)
	if len(messages) > 0 {
		httpkit.ValidationFailed(c, messages)
		return
	}

	result, err := h.svc.CreateProvider(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, msgProviderCreated, result)
}

// UpdateProvider applies a partial update to a provider.
// PUT /api/v1/prestadores/:id
func (h *Handler) UpdateProvider(c *gin.Context) {
	id, ok := parseID(c, msgInvalidProviderID)
	if !ok {
		return
	}

	var req transport.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	req.Normalize()
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, h.val.Messages(err))
		return
	}

	result, err := h.svc.UpdateProvider(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKMessage(c, msgProviderUpdated, result)
}

// DeleteProvider removes a provider and its items.
// DELETE /api/v1/prestadores/:id
func (h *Handler) DeleteProvider(c *gin.Context) {
	id, ok := parseID(c, msgInvalidProviderID)
	if !ok {
		return
	}

	if err := h.svc.DeleteProvider(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKMessage(c, msgProviderDeleted, nil)
}

// ListItems lists items filtered by prestadorId, categoria and ativo.
// GET /api/v1/itens
func (h *Handler) ListItems(c *gin.Context) {
	var req transport.ListItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, h.val.Messages(err))
		return
	}

	result, err := h.svc.ListItems(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.List(c, len(result), result)
}

// ListCategories returns the category list.
// GET /api/v1/itens/categorias
func (h *Handler) ListCategories(c *gin.Context) {
	httpkit.OK(c, domain.Categories)
}

// ListUnits returns the unit list.
// GET /api/v1/itens/unidades
func (h *Handler) ListUnits(c *gin.Context) {
	httpkit.OK(c, domain.Units)
}

// GetItem retrieves an item.
// GET /api/v1/itens/:id
func (h *Handler) GetItem(c *gin.Context) {
	id, ok := parseID(c, msgInvalidItemID)
	if !ok {
		return
	}

	result, err := h.svc.GetItem(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateItem adds an item to a provider's catalog.
// POST /api/v1/itens
func (h *Handler) CreateItem(c *gin.Context) {
	var req transport.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	req.Normalize()
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, h.val.Messages(err))
		return
	}
	if !httpkit.CanActFor(c, req.PrestadorID) {
		httpkit.Error(c, http.StatusForbidden, httpkit.MsgForbidden)
		return
	}

	result, err := h.svc.CreateItem(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, msgItemCreated, result)
}

// UpdateItem applies a partial update to an item.
// PUT /api/v1/itens/:id
func (h *Handler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c, msgInvalidItemID)
	if !ok {
		return
	}

	var req transport.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	req.Normalize()
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, h.val.Messages(err))
		return
	}

	result, err := h.svc.UpdateItem(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKMessage(c, msgItemUpdated, result)
}

// DeleteItem removes an item.
// DELETE /api/v1/itens/:id
func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c, msgInvalidItemID)
	if !ok {
		return
	}

	if err := h.svc.DeleteItem(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKMessage(c, msgItemDeleted, nil)
}

func parseID(c *gin.Context, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, message)
		return uuid.Nil, false
	}
	return id, true
}
