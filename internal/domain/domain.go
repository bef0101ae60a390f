// Package domain holds the enumerations shared by the catalog, calls,
// matching and offers modules, and registers them as validation rules.
package domain

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"procurement_backend/platform/sanitize"
	"procurement_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// moneyLimit is the first amount a NUMERIC(14,2) column cannot hold.
var moneyLimit = decimal.New(1, 12)

// Categories are the categories shared by providers, items and calls.
var Categories = []string{
	"Tecnologia",
	"Construção Civil",
	"Serviços Gerais",
	"Saúde",
	"Educação",
	"Transporte e Logística",
	"Alimentação",
}

// Units of measure for catalog items.
var Units = []string{"unidade", "hora", "diária", "mensal", "anual", "projeto"}

// DefaultUnit applies when an item is created without a unit.
const DefaultUnit = "unidade"

// Call statuses.
const (
	StatusOpen        = "Aberta"
	StatusUnderReview = "Em análise"
	StatusAwarded     = "Contratada"
	StatusClosed      = "Encerrada"
)

// CallStatuses lists every call status.
var CallStatuses = []string{StatusOpen, StatusUnderReview, StatusAwarded, StatusClosed}

// Provider kinds.
const (
	ProviderCompany    = "empresa"
	ProviderIndividual = "pessoa"
)

// ProviderKinds lists every provider kind.
var ProviderKinds = []string{ProviderCompany, ProviderIndividual}

// AcceptsOffers reports whether a call in status may receive offers.
func AcceptsOffers(status string) bool {
	return status == StatusOpen || status == StatusUnderReview
}

// OfferAcceptingStatuses lists the statuses for which AcceptsOffers is true.
func OfferAcceptingStatuses() []string {
	return []string{StatusOpen, StatusUnderReview}
}

var categoryIndex = func() map[string]string {
	idx := make(map[string]string, len(Categories))
	for _, c := range Categories {
		idx[sanitize.Fold(c)] = c
	}
	return idx
}()

// CanonicalCategory resolves a loosely written category ("construcao civil")
// to its canonical spelling.
func CanonicalCategory(value string) (string, bool) {
	c, ok := categoryIndex[sanitize.Fold(value)]
	return c, ok
}

// NormalizeCategory returns the canonical spelling when value resolves to a
// known category, or the cleaned input so validation can reject it.
func NormalizeCategory(value string) string {
	value = sanitize.Text(value)
	if c, ok := CanonicalCategory(value); ok {
		return c
	}
	return value
}

// IsCategory reports whether value is exactly one of Categories.
func IsCategory(value string) bool { return contains(Categories, value) }

// IsUnit reports whether value is one of Units.
func IsUnit(value string) bool { return contains(Units, value) }

// IsCallStatus reports whether value is one of CallStatuses.
func IsCallStatus(value string) bool { return contains(CallStatuses, value) }

// IsProviderKind reports whether value is one of ProviderKinds.
func IsProviderKind(value string) bool { return contains(ProviderKinds, value) }

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// IsMoney reports whether v is stored as NUMERIC(14,2) without rounding.
func IsMoney(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	d := decimal.NewFromFloat(v)
	return d.Exponent() >= -2 && d.Abs().LessThan(moneyLimit)
}

// RegisterValidations adds the categoria, unidade, status_chamada,
// tipo_prestador and dinheiro rules to val.
func RegisterValidations(val *validator.Validator) error {
	rules := []struct {
		tag   string
		check func(string) bool
		label string
		legal []string
	}{
		{"categoria", IsCategory, "Categoria", Categories},
		{"unidade", IsUnit, "Unidade", Units},
		{"status_chamada", IsCallStatus, "Status", CallStatuses},
		{"tipo_prestador", IsProviderKind, "Tipo", ProviderKinds},
	}

	for _, rule := range rules {
		check := rule.check
		msg := fmt.Sprintf("%s inválid%s. Valores permitidos: %s", rule.label, genderSuffix(rule.label), strings.Join(rule.legal, ", "))
		err := val.RegisterValidation(rule.tag, func(fl playground.FieldLevel) bool {
			return check(fl.Field().String())
		}, func(string, string) string { return msg })
		if err != nil {
			return fmt.Errorf("register %s validation: %w", rule.tag, err)
		}
	}

	err := val.RegisterValidation("dinheiro", func(fl playground.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Float32, reflect.Float64:
			return IsMoney(fl.Field().Float())
		default:
			return false
		}
	}, func(field, _ string) string {
		return fmt.Sprintf("O campo \"%s\" deve ter no máximo 2 casas decimais e ser menor que 1 trilhão", field)
	})
	if err != nil {
		return fmt.Errorf("register dinheiro validation: %w", err)
	}
	return nil
}

func genderSuffix(label string) string {
	if label == "Status" || label == "Tipo" {
		return "o"
	}
	return "a"
}
