package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
)

// ManufacturingHandler expone el motor de fabricación (protegido).
type ManufacturingHandler struct {
	uc *manufacturing.UseCase
}

// NewManufacturingHandler construye el handler.
func NewManufacturingHandler(uc *manufacturing.UseCase) *ManufacturingHandler {
	return &ManufacturingHandler{uc: uc}
}

// Check godoc
// @Summary      Verificar disponibilidad de insumos
// @Description  Resuelve la BOM con las medidas indicadas y compara contra el stock actual. No modifica nada.
// @Tags         manufacturing
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "ID del producto"
// @Param        quantity    query  int     false  "Unidades a fabricar (>= 1, por defecto 1)"
// @Param        width       query  string  false  "Ancho (decimal >= 0)"
// @Param        height      query  string  false  "Alto (decimal >= 0)"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/manufacturing/check [get]
func (h *ManufacturingHandler) Check(c *fiber.Ctx) error {
	quantity := 1
	if s := strings.TrimSpace(c.Query("quantity")); s != "" {
		var err error
		if quantity, err = strconv.Atoi(s); err != nil {
			return badRequest(c, "quantity", "debe ser un entero mayor o igual a 1")
		}
	}
	width, err := queryDecimal(c, "width")
	if err != nil {
		return badRequest(c, "width", "debe ser un número")
	}
	height, err := queryDecimal(c, "height")
	if err != nil {
		return badRequest(c, "height", "debe ser un número")
	}

	out, err := h.uc.CheckAvailability(c.Context(), manufacturing.AvailabilityInput{
		ProductID: c.Query("product_id"),
		Quantity:  quantity,
		Width:     width,
		Height:    height,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Manufacture godoc
// @Summary      Registrar corrida de fabricación
// @Description  Descuenta los insumos de la BOM efectiva, incrementa el total fabricado y registra la auditoría
//
//	en una sola transacción. Sin descuentos parciales: si falta algún insumo responde 409 con el detalle.
//
// @Tags         manufacturing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                  false  "Clave para deduplicar reintentos"
// @Param        body             body    dto.ManufactureRequest  true   "product_id, quantity_produced, width/height opcionales"
// @Success      201  {object}  dto.ManufacturingLogResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.InsufficientStockResponse
// @Router       /api/manufacturing [post]
func (h *ManufacturingHandler) Manufacture(c *fiber.Ctx) error {
	var in dto.ManufactureRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	manufacturedBy := in.ManufacturedBy
	if strings.TrimSpace(manufacturedBy) == "" {
		manufacturedBy = GetUserID(c)
	}

	out, err := h.uc.Manufacture(c.Context(), manufacturing.ManufactureInput{
		ProductID:        in.ProductID,
		QuantityProduced: in.QuantityProduced,
		Width:            in.Width,
		Height:           in.Height,
		ManufacturedBy:   manufacturedBy,
		Notes:            in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLogs godoc
// @Summary      Historial de fabricación
// @Tags         manufacturing
// @Security     Bearer
// @Produce      json
// @Param        product_id         query  string  false  "Filtrar por producto"
// @Param        inventory_item_id  query  string  false  "Corridas que descontaron este insumo"
// @Param        start_date         query  string  false  "Desde (RFC3339 o YYYY-MM-DD, inclusive)"
// @Param        end_date           query  string  false  "Hasta (RFC3339 o YYYY-MM-DD, inclusive)"
// @Param        limit              query  int     false  "Máximo de registros (por defecto 100)"
// @Success      200  {object}  dto.LogListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/manufacturing/logs [get]
func (h *ManufacturingHandler) ListLogs(c *fiber.Ctx) error {
	q := manufacturing.LogQuery{
		ProductID:       c.Query("product_id"),
		InventoryItemID: c.Query("inventory_item_id"),
	}
	var err error
	if q.From, err = queryDate(c, "start_date", false); err != nil {
		return badRequest(c, "start_date", "formato esperado RFC3339 o YYYY-MM-DD")
	}
	if q.To, err = queryDate(c, "end_date", true); err != nil {
		return badRequest(c, "end_date", "formato esperado RFC3339 o YYYY-MM-DD")
	}
	if s := strings.TrimSpace(c.Query("limit")); s != "" {
		if q.Limit, err = strconv.Atoi(s); err != nil {
			return badRequest(c, "limit", "debe ser un entero")
		}
	}

	logs, err := h.uc.QueryLogs(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LogListResponse{Data: logs, Count: len(logs)})
}

// GetLog godoc
// @Summary      Obtener registro de fabricación
// @Tags         manufacturing
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del registro"
// @Success      200  {object}  dto.ManufacturingLogResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/manufacturing/logs/{id} [get]
func (h *ManufacturingHandler) GetLog(c *fiber.Ctx) error {
	out, err := h.uc.GetLog(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DownloadRunSheet godoc
// @Summary      Hoja de producción en PDF
// @Tags         manufacturing
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/manufacturing/logs/{id}/pdf [get]
func (h *ManufacturingHandler) DownloadRunSheet(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.uc.DownloadRunSheet(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

func queryDecimal(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// queryDate acepta RFC3339 o YYYY-MM-DD. Con endOfDay, una fecha sin hora cubre el día completo.
func queryDate(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
