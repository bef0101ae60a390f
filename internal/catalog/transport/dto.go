package transport

import (
	"strings"
	"time"

	"procurement_backend/internal/domain"
	"procurement_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgCNPJRequired = "CNPJ é obrigatório para empresas"
	msgCPFRequired  = "CPF é obrigatório para pessoa física"
)

// Providers

type CreateProviderRequest struct {
	Nome      string  `json:"nome" validate:"required,max=200"`
	Email     string  `json:"email" validate:"required,email,max=200"`
	Telefone  string  `json:"telefone" validate:"required,max=40"`
	Tipo      string  `json:"tipo" validate:"omitempty,tipo_prestador"`
	CNPJ      *string `json:"cnpj,omitempty" validate:"omitnil,max=20"`
	CPF       *string `json:"cpf,omitempty" validate:"omitnil,max=20"`
	Categoria string  `json:"categoria" validate:"required,categoria"`
}

// Normalize trims and canonicalizes the request before validation.
func (r *CreateProviderRequest) Normalize() {
	r.Nome = sanitize.Text(r.Nome)
	r.Email = strings.ToLower(sanitize.Text(r.Email))
	r.Telefone = sanitize.Text(r.Telefone)
	r.Tipo = sanitize.Text(r.Tipo)
	if r.Tipo == "" {
		r.Tipo = domain.ProviderCompany
	}
	r.CNPJ = sanitize.TextPtr(r.CNPJ)
	r.CPF = sanitize.TextPtr(r.CPF)
	r.Categoria = domain.NormalizeCategory(r.Categoria)
}

// DocumentErrors checks that the tax document matching Tipo is present.
func (r CreateProviderRequest) DocumentErrors() []string {
	return DocumentErrors(r.Tipo, r.CNPJ, r.CPF)
}

type UpdateProviderRequest struct {
	Nome      *string `json:"nome,omitempty" validate:"omitnil,required,max=200"`
	Email     *string `json:"email,omitempty" validate:"omitnil,required,email,max=200"`
	Telefone  *string `json:"telefone,omitempty" validate:"omitnil,required,max=40"`
	Tipo      *string `json:"tipo,omitempty" validate:"omitnil,tipo_prestador"`
	CNPJ      *string `json:"cnpj,omitempty" validate:"omitnil,max=20"`
	CPF       *string `json:"cpf,omitempty" validate:"omitnil,max=20"`
	Categoria *string `json:"categoria,omitempty" validate:"omitnil,required,categoria"`
}

// Normalize trims and canonicalizes the request before validation.
func (r *UpdateProviderRequest) Normalize() {
	r.Nome = sanitize.TextPtr(r.Nome)
	r.Email = sanitize.TextPtr(r.Email)
	if r.Email != nil {
		lower := strings.ToLower(*r.Email)
		r.Email = &lower
	}
	r.Telefone = sanitize.TextPtr(r.Telefone)
	r.Tipo = sanitize.TextPtr(r.Tipo)
	r.CNPJ = sanitize.TextPtr(r.CNPJ)
	r.CPF = sanitize.TextPtr(r.CPF)
	if r.Categoria != nil {
		c := domain.NormalizeCategory(*r.Categoria)
		r.Categoria = &c
	}
}

// DocumentErrors returns the messages for a provider of kind tipo that
// lacks its tax document.
func DocumentErrors(tipo string, cnpj, cpf *string) []string {
	switch {
	case tipo == domain.ProviderCompany && blank(cnpj):
		return []string{msgCNPJRequired}
	case tipo == domain.ProviderIndividual && blank(cpf):
		return []string{msgCPFRequired}
	default:
		return nil
	}
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

type ProviderResponse struct {
	ID        uuid.UUID `json:"id"`
	Nome      string    `json:"nome"`
	Email     string    `json:"email"`
	Telefone  string    `json:"telefone"`
	Tipo      string    `json:"tipo"`
	CNPJ      *string   `json:"cnpj,omitempty"`
	CPF       *string   `json:"cpf,omitempty"`
	Categoria string    `json:"categoria"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProviderListEntry is a provider as shown in the provider list.
type ProviderListEntry struct {
	ProviderResponse
	QuantidadeItens int `json:"quantidadeItens"`
}

// ProviderDetail is a provider together with its items.
type ProviderDetail struct {
	ProviderResponse
	Itens []ItemResponse `json:"itens"`
}

// Items

type CreateItemRequest struct {
	PrestadorID     uuid.UUID `json:"prestadorId" validate:"required"`
	Categoria       string    `json:"categoria" validate:"required,categoria"`
	Nome            string    `json:"nome" validate:"required,max=200"`
	Descricao       string    `json:"descricao" validate:"max=2000"`
	ValorReferencia *float64  `json:"valorReferencia" validate:"required,gte=0,dinheiro"`
	Unidade         string    `json:"unidade" validate:"omitempty,unidade"`
	Ativo           *bool     `json:"ativo,omitempty"`
}

// Normalize trims and canonicalizes the request before validation.
func (r *CreateItemRequest) Normalize() {
	r.Categoria = domain.NormalizeCategory(r.Categoria)
	r.Nome = sanitize.Text(r.Nome)
	r.Descricao = sanitize.Multiline(r.Descricao)
	r.Unidade = sanitize.Text(r.Unidade)
}

type UpdateItemRequest struct {
	Categoria       *string  `json:"categoria,omitempty" validate:"omitnil,required,categoria"`
	Nome            *string  `json:"nome,omitempty" validate:"omitnil,required,max=200"`
	Descricao       *string  `json:"descricao,omitempty" validate:"omitnil,max=2000"`
	ValorReferencia *float64 `json:"valorReferencia,omitempty" validate:"omitnil,gte=0,dinheiro"`
	Unidade         *string  `json:"unidade,omitempty" validate:"omitnil,unidade"`
	Ativo           *bool    `json:"ativo,omitempty"`
}

// Normalize trims and canonicalizes the request before validation.
func (r *UpdateItemRequest) Normalize() {
	if r.Categoria != nil {
		c := domain.NormalizeCategory(*r.Categoria)
		r.Categoria = &c
	}
	r.Nome = sanitize.TextPtr(r.Nome)
	r.Descricao = sanitize.MultilinePtr(r.Descricao)
	r.Unidade = sanitize.TextPtr(r.Unidade)
}

type ListItemsRequest struct {
	PrestadorID string `form:"prestadorId" validate:"omitempty,uuid"`
	Categoria   string `form:"categoria" validate:"max=100"`
	Ativo       string `form:"ativo" validate:"omitempty,oneof=true false"`
}

type ItemResponse struct {
	ID              uuid.UUID `json:"id"`
	PrestadorID     uuid.UUID `json:"prestadorId"`
	Categoria       string    `json:"categoria"`
	Nome            string    `json:"nome"`
	Descricao       string    `json:"descricao"`
	ValorReferencia float64   `json:"valorReferencia"`
	Unidade         string    `json:"unidade"`
	Ativo           bool      `json:"ativo"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ItemWithProviderResponse is an item plus its owner's display name.
type ItemWithProviderResponse struct {
	ItemResponse
	PrestadorNome string `json:"prestadorNome"`
}
