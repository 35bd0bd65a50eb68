package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
)

// writeError traduce errores de dominio a status HTTP. Los errores de almacenamiento
// se responden como 500 sin exponer la causa.
func writeError(c *fiber.Ctx, err error) error {
	var (
		insufficient *domain.InsufficientStockError
		validation   *domain.ValidationError
	)
	switch {
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusConflict).JSON(dto.InsufficientStockResponse{
			Code:              "INSUFFICIENT_STOCK",
			Message:           domain.ErrInsufficientStock.Error(),
			InsufficientItems: toShortageDTOs(insufficient.Shortages),
		})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "el stock no puede quedar negativo"})
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validation.Message, Field: validation.Field})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENCY_CONFLICT", Message: domain.ErrConflict.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}

func badRequest(c *fiber.Ctx, field, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: message, Field: field})
}

func toShortageDTOs(shortages []domain.Shortage) []dto.ShortageDTO {
	out := make([]dto.ShortageDTO, 0, len(shortages))
	for _, s := range shortages {
		out = append(out, dto.ShortageDTO{
			InventoryItemID: s.InventoryItemID,
			Name:            s.Name,
			SKU:             s.SKU,
			Required:        s.Required,
			Available:       s.Available,
			Shortage:        s.Missing,
		})
	}
	return out
}
