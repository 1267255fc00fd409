package api

import (
	"errors"
	"log/slog"

	"docqa/model"
	"docqa/store"

	"github.com/gofiber/fiber/v2"
)

// exposeDetails controls whether internal error text leaks into responses.
// Set once at startup, enabled outside production only.
var exposeDetails bool

func ExposeDetails(on bool) {
	exposeDetails = on
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	if apiErr, ok := err.(Error); ok {
		return c.Status(apiErr.Code).JSON(apiErr)
	}
	if valErr, ok := err.(ValidationError); ok {
		return c.Status(valErr.Status).JSON(valErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		apiErr := NewError(fiberErr.Code, fiberErr.Message)
		return c.Status(apiErr.Code).JSON(apiErr)
	}

	apiErr := NewError(fiber.StatusInternalServerError, "internal error")
	switch {
	case errors.Is(err, model.ErrRateLimited):
		apiErr.Message = "provider rate limited"
	case errors.Is(err, model.ErrProviderUnavailable):
		apiErr.Message = "provider unavailable"
	case errors.Is(err, store.ErrVectorStore):
		apiErr.Message = "vector store error"
	}
	if exposeDetails {
		apiErr.Details = err.Error()
	}

	slog.Error("request failed", "code", apiErr.Code, "error", err.Error())
	return c.Status(apiErr.Code).JSON(apiErr)
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e Error) Error() string {
	return e.Message
}

func NewError(code int, err string) Error {
	return Error{
		Code:    code,
		Message: err,
	}
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errors,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid JSON request",
	}
}

func ErrNoFile() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "no file supplied",
	}
}

func ErrCorruptDocument() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "file is not a parseable document",
	}
}

func ErrDecode() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "file is not valid UTF-8 text",
	}
}

func ErrEmptyDocument() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "document contains no extractable text",
	}
}

func ErrMissingQuestion() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "question is required",
	}
}
