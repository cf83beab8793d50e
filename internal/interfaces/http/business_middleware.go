package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
)

// businessFinder es el contrato mínimo que necesita el middleware para verificar el negocio.
// Lo implementan los BusinessRepo de postgres y memory.
type businessFinder interface {
	GetByID(ctx context.Context, id string) (*entity.Business, error)
}

// RequireBusiness verifica que el negocio del token JWT exista.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalBusinessID).
//
// Comportamiento:
//   - 401 si el token no trae business_id.
//   - 403 si el negocio no existe.
//   - 503 si falla la consulta.
func RequireBusiness(finder businessFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		businessID := GetBusinessID(c)
		if businessID == "" {
			return unauthorized(c)
		}
		business, err := finder.GetByID(c.UserContext(), businessID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "BUSINESS_CHECK_FAILED",
				Message: "no se pudo verificar el negocio, intente más tarde",
			})
		}
		if business == nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "BUSINESS_NOT_FOUND",
				Message: "el negocio del token no existe",
			})
		}
		return c.Next()
	}
}
