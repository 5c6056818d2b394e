package handler

import (
	"errors"
	"net/http"

	"parkus/internal/repository"
	"parkus/internal/service"

	"github.com/gin-gonic/gin"
)

// Machine-readable error kinds carried in every failure envelope.
const (
	KindValidation   = "validation_error"
	KindNotFound     = "not_found"
	KindInvalidState = "invalid_state"
	KindConflict     = "conflict"
	KindUnauthorized = "unauthorized"
	KindStore        = "store_error"
)

type apiResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
	Data      any    `json:"data,omitempty"`
}

func respondData(c *gin.Context, status int, message string, data any) {
	c.JSON(status, apiResponse{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, kind, message string) {
	c.JSON(status, apiResponse{Success: false, ErrorKind: kind, Message: message})
}

// respondDomainError maps ledger errors onto HTTP statuses. Unrecognized
// errors are treated as store failures; their detail is suppressed in
// production.
func respondDomainError(c *gin.Context, err error, production bool) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondError(c, http.StatusBadRequest, KindValidation, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		respondError(c, http.StatusNotFound, KindNotFound, err.Error())
	case errors.Is(err, repository.ErrInvalidState):
		respondError(c, http.StatusBadRequest, KindInvalidState, err.Error())
	case errors.Is(err, repository.ErrDuplicateEntry):
		respondError(c, http.StatusConflict, KindConflict, err.Error())
	default:
		message := "internal server error"
		if !production {
			message = err.Error()
		}
		respondError(c, http.StatusInternalServerError, KindStore, message)
	}
}
