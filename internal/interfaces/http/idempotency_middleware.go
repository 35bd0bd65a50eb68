package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// Cabeceras de idempotencia.
const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"
	maxIdempotencyKeyLen = 255
)

// Idempotency deduplica reintentos de un POST con la misma Idempotency-Key (por usuario).
// Solo se guardan respuestas 2xx: un rechazo (400/409) o un fallo libera la clave y el cliente
// puede reintentar. Sin cabecera la petición pasa sin cambios. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - clave nueva            → se ejecuta el handler
//   - clave completada       → se reenvía la respuesta guardada con Idempotent-Replayed: true
//   - clave aún en curso     → 409 IDEMPOTENCY_IN_PROGRESS
//   - almacén no disponible  → 503 (no se ejecuta la corrida sin poder deduplicar)
func Idempotency(store repository.IdempotencyStore, ttl time.Duration, log *logger.Logger) fiber.Handler {
	log = log.Component("idempotency")
	return func(c *fiber.Ctx) error {
		key := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
		if key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLen {
			return badRequest(c, HeaderIdempotencyKey, "máximo 255 caracteres")
		}
		scoped := GetUserID(c) + ":" + key
		ctx := c.Context()

		reserved, err := store.Reserve(ctx, scoped, ttl)
		if err != nil {
			log.Error().Err(err).Msg("no se pudo reservar la clave de idempotencia")
			return unavailable(c)
		}
		if !reserved {
			saved, err := store.Get(ctx, scoped)
			if err != nil {
				log.Error().Err(err).Msg("no se pudo leer la clave de idempotencia")
				return unavailable(c)
			}
			if saved == nil || !saved.Completed {
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
					Code:    "IDEMPOTENCY_IN_PROGRESS",
					Message: "ya hay una petición en curso con esta Idempotency-Key",
				})
			}
			c.Set(HeaderReplayed, "true")
			if saved.ContentType != "" {
				c.Set(fiber.HeaderContentType, saved.ContentType)
			}
			return c.Status(saved.Status).Send(saved.Body)
		}

		if err := c.Next(); err != nil {
			_ = store.Release(ctx, scoped)
			return err
		}

		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			if err := store.Release(ctx, scoped); err != nil {
				log.Warn().Err(err).Msg("no se pudo liberar la clave de idempotencia")
			}
			return nil
		}
		resp := repository.IdempotentResponse{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err := store.Complete(ctx, scoped, resp, ttl); err != nil {
			// La corrida ya se confirmó: no se revierte, solo se pierde la deduplicación.
			log.Error().Err(err).Msg("no se pudo guardar la respuesta idempotente")
		}
		return nil
	}
}

func unavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
		Code:    "IDEMPOTENCY_UNAVAILABLE",
		Message: "no se pudo verificar la Idempotency-Key, intente más tarde",
	})
}
