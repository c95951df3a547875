// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"content-intel-service/internal/domain"
	"content-intel-service/internal/transport/httpserver/dto"
)

// domainError maps core errors onto HTTP responses. Input errors surface
// with their reason; everything else is a generic 500 so internal details
// stay in the logs.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnsafeURL):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "SSRF_REJECTED",
		})
	case errors.Is(err, domain.ErrMalformedURL):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "MALFORMED_URL",
		})
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_REQUEST",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "internal error",
			Code:  "INTERNAL_ERROR",
		})
	}
}
