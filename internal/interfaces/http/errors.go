package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/domain"
)

// ValidationError entrada rechazada por las reglas de validación del DTO. Fields usa el nombre JSON.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return domain.ErrInvalidInput.Error()
}

// Unwrap permite errors.Is(err, domain.ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: el primer sentinel que coincide gana.
var errorMappings = []errorMapping{
	{domain.ErrUnauthenticated, fiber.StatusUnauthorized, "UNAUTHENTICATED"},
	{domain.ErrCrossTenant, fiber.StatusForbidden, "CROSS_TENANT"},
	{domain.ErrUnauthorized, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrPartialWrite, fiber.StatusInternalServerError, "PARTIAL_WRITE"},
	{domain.ErrInsufficientStock, fiber.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrBusinessNameTaken, fiber.StatusConflict, "BUSINESS_NAME_TAKEN"},
	{domain.ErrAlreadyHasBusiness, fiber.StatusConflict, "ALREADY_HAS_BUSINESS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
}

// NewErrorHandler ErrorHandler de Fiber: traduce los errores de dominio a status y cuerpo JSON.
// Los errores de infraestructura se registran y el cliente solo ve un mensaje genérico.
func NewErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var validation *ValidationError
		if errors.As(err, &validation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: "datos inválidos",
				Fields:  validation.Fields,
			})
		}
		for _, m := range errorMappings {
			if errors.Is(err, m.target) {
				if m.status >= fiber.StatusInternalServerError {
					log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("operación revertida")
				}
				return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
			}
		}
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}

		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:    "INTERNAL",
			Message: "error interno del servidor",
		})
	}
}
