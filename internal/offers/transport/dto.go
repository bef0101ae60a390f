package transport

import (
	"time"

	"procurement_backend/platform/sanitize"
	"procurement_backend/platform/validator"

	"github.com/google/uuid"
)

type CreateOfferRequest struct {
	ChamadaID   string   `json:"chamadaId" validate:"required,uuid"`
	PrestadorID string   `json:"prestadorId" validate:"required,uuid"`
	Valor       *float64 `json:"valor" validate:"required,gt=0,dinheiro"`
	Descricao   string   `json:"descricao" validate:"max=5000"`
}

// Normalize trims the request before validation.
func (r *CreateOfferRequest) Normalize() {
	r.ChamadaID = sanitize.Text(r.ChamadaID)
	r.PrestadorID = sanitize.Text(r.PrestadorID)
	r.Descricao = sanitize.Multiline(r.Descricao)
}

// RegisterMessages installs the offer specific validation messages.
func RegisterMessages(val *validator.Validator) {
	val.RegisterFieldMessage("CreateOfferRequest.chamadaId", "required", "ID da chamada é obrigatório")
	val.RegisterFieldMessage("CreateOfferRequest.prestadorId", "required", "ID do prestador é obrigatório")
	val.RegisterFieldMessage("CreateOfferRequest.valor", "required", "Valor é obrigatório")
	val.RegisterFieldMessage("CreateOfferRequest.valor", "gt", "Valor deve ser positivo")
	val.RegisterFieldMessage("CreateOfferRequest.valor", "dinheiro", "Valor deve ter no máximo 2 casas decimais")
}

type ListOffersRequest struct {
	ChamadaID   string `form:"chamadaId" validate:"omitempty,uuid"`
	PrestadorID string `form:"prestadorId" validate:"omitempty,uuid"`
}

type OfferResponse struct {
	ID            uuid.UUID `json:"id"`
	ChamadaID     uuid.UUID `json:"chamadaId"`
	PrestadorID   uuid.UUID `json:"prestadorId"`
	PrestadorNome string    `json:"prestadorNome"`
	Valor         float64   `json:"valor"`
	Descricao     string    `json:"descricao"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
