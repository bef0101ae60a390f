// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"errors"
	"net/http"

	"procurement_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

const msgInternalError = "Erro interno do servidor"

// Envelope is the uniform response body.
type Envelope struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// JSON sends a raw JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK sends a 200 envelope carrying data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// OKMessage sends a 200 envelope with a message and optional data.
func OKMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// List sends a 200 envelope with data and its element count.
func List(c *gin.Context, count int, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

// ListMessage is List with a human readable message.
func ListMessage(c *gin.Context, message string, count int, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Count: &count, Data: data})
}

// Created sends a 201 envelope.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Error sends a failure envelope with the given status code and message.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Error: message})
}

// ValidationFailed sends a 400 envelope listing every failed rule.
func ValidationFailed(c *gin.Context, messages []string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Errors: messages})
}

// HandleError maps domain errors to HTTP responses.
// Typed *apperr.Error values use their Kind for the status code; a []string
// in Details is rendered under "errors". Anything else becomes a 500 with a
// generic message, and the cause is attached to the gin context for logging.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	_ = c.Error(err)

	domainErr, ok := asAppErr(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, Envelope{Success: false, Error: msgInternalError})
		return true
	}

	body := Envelope{Success: false, Error: domainErr.Message}
	if list, ok := domainErr.Details.([]string); ok {
		body.Errors = list
		if domainErr.Kind == apperr.KindValidation {
			body.Error = ""
		}
	}
	c.JSON(domainErr.HTTPStatus(), body)
	return true
}

func asAppErr(err error) (*apperr.Error, bool) {
	var typed *apperr.Error
	if errors.As(err, &typed) {
		return typed, true
	}
	return nil, false
}
