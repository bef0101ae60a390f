package transport

import (
	"time"

	"procurement_backend/internal/domain"
	matchingtransport "procurement_backend/internal/matching/transport"
	"procurement_backend/platform/sanitize"

	"github.com/google/uuid"
)

// DateLayout is the wire format of prazoExecucao.
const DateLayout = "2006-01-02"

type CreateCallRequest struct {
	Titulo        string   `json:"titulo" validate:"required,max=200"`
	Descricao     string   `json:"descricao" validate:"max=5000"`
	Categoria     string   `json:"categoria" validate:"required,categoria"`
	Quantidade    *int     `json:"quantidade,omitempty" validate:"omitnil,min=1"`
	ValorMaximo   *float64 `json:"valorMaximo,omitempty" validate:"omitnil,gte=0,dinheiro"`
	PrazoExecucao string   `json:"prazoExecucao" validate:"omitempty,datetime=2006-01-02"`
	Status        string   `json:"status" validate:"omitempty,status_chamada"`
}

// Normalize trims and canonicalizes the request before validation.
func (r *CreateCallRequest) Normalize() {
	r.Titulo = sanitize.Text(r.Titulo)
	r.Descricao = sanitize.Multiline(r.Descricao)
	r.Categoria = domain.NormalizeCategory(r.Categoria)
	r.PrazoExecucao = sanitize.Text(r.PrazoExecucao)
	r.Status = sanitize.Text(r.Status)
}

type UpdateCallRequest struct {
	Titulo        *string  `json:"titulo,omitempty" validate:"omitnil,required,max=200"`
	Descricao     *string  `json:"descricao,omitempty" validate:"omitnil,max=5000"`
	Categoria     *string  `json:"categoria,omitempty" validate:"omitnil,required,categoria"`
	Quantidade    *int     `json:"quantidade,omitempty" validate:"omitnil,min=1"`
	ValorMaximo   *float64 `json:"valorMaximo,omitempty" validate:"omitnil,gte=0,dinheiro"`
	PrazoExecucao *string  `json:"prazoExecucao,omitempty" validate:"omitnil,datetime=2006-01-02"`
	Status        *string  `json:"status,omitempty" validate:"omitnil,status_chamada"`
}

// Normalize trims and canonicalizes the request before validation.
func (r *UpdateCallRequest) Normalize() {
	r.Titulo = sanitize.TextPtr(r.Titulo)
	r.Descricao = sanitize.MultilinePtr(r.Descricao)
	if r.Categoria != nil {
		c := domain.NormalizeCategory(*r.Categoria)
		r.Categoria = &c
	}
	r.PrazoExecucao = sanitize.TextPtr(r.PrazoExecucao)
	r.Status = sanitize.TextPtr(r.Status)
}

// AffectsMatching reports whether the update touches a matching input.
func (r UpdateCallRequest) AffectsMatching() bool {
	return r.Categoria != nil || r.ValorMaximo != nil
}

type ListCallsRequest struct {
	Categoria string `form:"categoria" validate:"max=100"`
	Status    string `form:"status" validate:"omitempty,status_chamada"`
}

type CallResponse struct {
	ID            uuid.UUID `json:"id"`
	Titulo        string    `json:"titulo"`
	Descricao     string    `json:"descricao"`
	Categoria     string    `json:"categoria"`
	Quantidade    int       `json:"quantidade"`
	ValorMaximo   *float64  `json:"valorMaximo"`
	PrazoExecucao *string   `json:"prazoExecucao"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CallSummary is a call with the number of compatible providers.
// PossibilidadesIndisponiveis is set when the count could not be computed.
type CallSummary struct {
	CallResponse
	QuantidadePossibilidades    int  `json:"quantidadePossibilidades"`
	PossibilidadesIndisponiveis bool `json:"possibilidadesIndisponiveis,omitempty"`
}

// CallDetail is a call with its possibilities.
type CallDetail struct {
	CallResponse
	QuantidadePossibilidades    int                                     `json:"quantidadePossibilidades"`
	Possibilidades              []matchingtransport.PossibilityResponse `json:"possibilidades"`
	PossibilidadesIndisponiveis bool                                    `json:"possibilidadesIndisponiveis,omitempty"`
}
