package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/pkg/jwt"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ManufacturingUC  *manufacturing.UseCase
	AdjustStockUC    *inventory.AdjustStockUseCase
	IdempotencyStore repository.IdempotencyStore
	IdempotencyTTL   time.Duration
	JWTSecret        string
	JWTIssuer        string
	Logger           *logger.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	protected := api.Group("", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Fabricación: lectura para cualquier rol autenticado; registrar corridas solo admin o producción.
	mfg := protected.Group("/manufacturing")
	mfgHandler := NewManufacturingHandler(deps.ManufacturingUC)
	mfg.Get("/check", mfgHandler.Check)
	mfg.Get("/logs", mfgHandler.ListLogs)
	mfg.Get("/logs/:id", mfgHandler.GetLog)
	mfg.Get("/logs/:id/pdf", mfgHandler.DownloadRunSheet)

	createHandlers := []fiber.Handler{RequireRole(jwt.RoleAdmin, jwt.RoleProduccion)}
	if deps.IdempotencyStore != nil {
		createHandlers = append(createHandlers, Idempotency(deps.IdempotencyStore, deps.IdempotencyTTL, deps.Logger))
	}
	createHandlers = append(createHandlers, mfgHandler.Manufacture)
	mfg.Post("/", createHandlers...)

	// Ajustes manuales de stock: admin o bodega.
	inv := protected.Group("/inventory")
	invHandler := NewInventoryHandler(deps.AdjustStockUC)
	inv.Patch("/:id/stock", RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero), invHandler.AdjustStock)
}
