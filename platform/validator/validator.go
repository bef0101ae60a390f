// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v             *validator.Validate
	messages      map[string]MessageFunc
	fieldMessages map[string]string
}

// MessageFunc renders a human readable message for a failed field.
type MessageFunc func(field string, param string) string

// New creates a new Validator instance.
// Field names in messages use the json tag of the struct field.
// Domain-specific rules are added with RegisterValidation.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	return &Validator{
		v:             v,
		messages:      defaultMessages(),
		fieldMessages: make(map[string]string),
	}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function and the
// message rendered when it fails.
func (val *Validator) RegisterValidation(tag string, fn validator.Func, msg MessageFunc) error {
	if err := val.v.RegisterValidation(tag, fn); err != nil {
		return err
	}
	if msg != nil {
		val.messages[tag] = msg
	}
	return nil
}

// RegisterFieldMessage overrides the message of one rule on one field.
// namespace is the struct name and json field name, as in
// "CreateOfferRequest.valor". Registration is not safe for concurrent use
// with validation and belongs in module setup.
func (val *Validator) RegisterFieldMessage(namespace, tag, message string) {
	val.fieldMessages[namespace+"|"+tag] = message
}

// Messages converts a validation error into one message per failed field.
// Errors that did not come from the validator are returned as a single message.
func (val *Validator) Messages(err error) []string {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if msg, ok := val.fieldMessages[fe.Namespace()+"|"+fe.Tag()]; ok {
			out = append(out, msg)
			continue
		}
		render, ok := val.messages[fe.Tag()]
		if !ok {
			out = append(out, fmt.Sprintf("O campo \"%s\" é inválido", fe.Field()))
			continue
		}
		out = append(out, render(fe.Field(), fe.Param()))
	}
	return out
}

// layoutReplacer renders Go time layouts the way users write them.
var layoutReplacer = strings.NewReplacer("2006", "AAAA", "01", "MM", "02", "DD", "15", "hh", "04", "mm", "05", "ss")

func defaultMessages() map[string]MessageFunc {
	return map[string]MessageFunc{
		"required": func(field, _ string) string {
			return fmt.Sprintf("O campo \"%s\" é obrigatório", field)
		},
		"uuid": func(field, _ string) string {
			return fmt.Sprintf("O campo \"%s\" deve ser um identificador válido", field)
		},
		"email": func(field, _ string) string {
			return fmt.Sprintf("O campo \"%s\" deve ser um e-mail válido", field)
		},
		"gt": func(field, param string) string {
			if param == "0" {
				return fmt.Sprintf("O campo \"%s\" deve ser positivo", field)
			}
			return fmt.Sprintf("O campo \"%s\" deve ser maior que %s", field, param)
		},
		"gte": func(field, param string) string {
			if param == "0" {
				return fmt.Sprintf("O campo \"%s\" deve ser um número positivo", field)
			}
			return fmt.Sprintf("O campo \"%s\" deve ser maior ou igual a %s", field, param)
		},
		"min": func(field, param string) string {
			return fmt.Sprintf("O campo \"%s\" deve ter no mínimo %s", field, param)
		},
		"max": func(field, param string) string {
			return fmt.Sprintf("O campo \"%s\" deve ter no máximo %s", field, param)
		},
		"datetime": func(field, param string) string {
			return fmt.Sprintf("O campo \"%s\" deve seguir o formato %s", field, layoutReplacer.Replace(param))
		},
		"oneof": func(field, param string) string {
			return fmt.Sprintf("Valor inválido para \"%s\". Valores permitidos: %s", field, strings.Join(strings.Fields(param), ", "))
		},
	}
}
