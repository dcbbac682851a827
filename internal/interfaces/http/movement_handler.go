package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/activos-api/internal/application/dto"
	"github.com/tu-usuario/activos-api/internal/application/movements"
	"github.com/tu-usuario/activos-api/internal/domain"
)

// MovementHandler expone el motor de movimientos por HTTP: alta en lote,
// consulta, confirmación, edición, cancelación, verificación de ubicación
// y exportación.
type MovementHandler struct {
	createBatch *movements.CreateBatchUseCase
	update      *movements.UpdateMovementUseCase
	cancel      *movements.CancelMovementUseCase
	validate    *movements.ValidateLocationUseCase
	history     *movements.HistoryUseCase
	export      *movements.ExportUseCase
}

// NewMovementHandler construye el handler con sus casos de uso.
func NewMovementHandler(
	createBatch *movements.CreateBatchUseCase,
	update *movements.UpdateMovementUseCase,
	cancel *movements.CancelMovementUseCase,
	validate *movements.ValidateLocationUseCase,
	history *movements.HistoryUseCase,
	export *movements.ExportUseCase,
) *MovementHandler {
	return &MovementHandler{
		createBatch: createBatch,
		update:      update,
		cancel:      cancel,
		validate:    validate,
		history:     history,
		export:      export,
	}
}

// movementError traduce los errores del dominio al contrato HTTP.
func movementError(c *fiber.Ctx, err error) error {
	var vErr *movements.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "validación fallida", Details: vErr.Fields,
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_CANCELLED", Message: "el movimiento ya fue cancelado"})
	case errors.Is(err, domain.ErrInvalidReference):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_REFERENCE", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// Create godoc
// @Summary      Registrar movimientos en lote
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementsRequest  true  "lote con descriptor compartido"
// @Success      201   {object}  dto.CreateMovementsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.createBatch.CreateBatch(c.UserContext(), GetUserID(c), in)
	if err != nil {
		movementsRejected.Inc()
		return movementError(c, err)
	}
	movementsCreated.Add(float64(out.Count))
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos con filtros y paginación
// @Tags         movements
// @Produce      json
// @Param        search           query  string  false  "placa, serial, acta, tienda o persona"
// @Param        from             query  string  false  "salida desde (RFC 3339 o YYYY-MM-DD)"
// @Param        to               query  string  false  "salida hasta"
// @Param        kind             query  string  false  "tipo de movimiento"
// @Param        lifecycle_state  query  string  false  "estado"
// @Param        store_ids        query  string  false  "ids de tienda separados por coma"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query params inválidos"})
	}
	out, err := h.history.List(c.UserContext(), q)
	if err != nil {
		return movementError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de un movimiento
// @Tags         movements
// @Produce      json
// @Param        id  path  string  true  "id del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.history.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return movementError(c, err)
	}
	return c.JSON(out)
}

// Timeline godoc
// @Summary      Historial de movimientos de un equipo
// @Tags         movements
// @Produce      json
// @Param        id  path  string  true  "id del equipo"
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/equipment/{id}/movements [get]
func (h *MovementHandler) Timeline(c *fiber.Ctx) error {
	out, err := h.history.Timeline(c.UserContext(), c.Params("id"))
	if err != nil {
		return movementError(c, err)
	}
	return c.JSON(out)
}

// ConfirmState godoc
// @Summary      Confirmar entrega / avanzar estado
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id del movimiento"
// @Param        body  body  dto.UpdateStateRequest  true  "nuevo estado y metadatos de llegada"
// @Success      200  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/state [patch]
func (h *MovementHandler) ConfirmState(c *fiber.Ctx) error {
	var in dto.UpdateStateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.update.ConfirmState(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return movementError(c, err)
	}
	return c.JSON(out)
}

// Edit godoc
// @Summary      Editar campos mutables de un movimiento
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id del movimiento"
// @Param        body  body  dto.EditMovementRequest  true  "campos editables"
// @Success      200  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [put]
func (h *MovementHandler) Edit(c *fiber.Ctx) error {
	var in dto.EditMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.update.Edit(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return movementError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar un movimiento y revertir la ubicación del equipo
// @Tags         movements
// @Produce      json
// @Param        id  path  string  true  "id del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/cancel [post]
func (h *MovementHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.cancel.Cancel(c.UserContext(), id); err != nil {
		return movementError(c, err)
	}
	movementsCancelled.Inc()
	out, err := h.history.GetByID(c.UserContext(), id)
	if err != nil {
		return movementError(c, err)
	}
	return c.JSON(out)
}

// ValidateLocation godoc
// @Summary      Verificar la ubicación registrada de un lote de equipos
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateLocationRequest  true  "equipos y ubicación esperada"
// @Success      200  {array}   dto.LocationCheckResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/validate-location [post]
func (h *MovementHandler) ValidateLocation(c *fiber.Ctx) error {
	var in dto.ValidateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.validate.Validate(c.UserContext(), in)
	if err != nil {
		return movementError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar el listado filtrado a .xlsx
// @Tags         movements
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        search  query  string  false  "mismos filtros del listado"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/export [get]
func (h *MovementHandler) Export(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query params inválidos"})
	}
	f, err := h.export.Export(c.UserContext(), q)
	if err != nil {
		return movementError(c, err)
	}
	defer f.Close()

	filename := fmt.Sprintf("movimientos_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	if err := f.Write(c.Response().BodyWriter()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error generando el archivo"})
	}
	return nil
}
