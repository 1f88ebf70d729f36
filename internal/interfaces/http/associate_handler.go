package http

import (
	"github.com/gofiber/fiber/v2"

	appdelivery "github.com/coopvalle/dotaciones-api/internal/application/delivery"
	"github.com/coopvalle/dotaciones-api/internal/application/dto"
	"github.com/coopvalle/dotaciones-api/internal/application/retirement"
	"github.com/coopvalle/dotaciones-api/internal/application/usecase"
	"github.com/coopvalle/dotaciones-api/internal/domain/entity"
)

// AssociateHandler maneja asociados vivos, su historial de entregas, el retiro y
// las consultas del archivo (protegido).
type AssociateHandler struct {
	associateUC *usecase.AssociateUseCase
	deliverUC   *appdelivery.DeliverUseCase
	migratorUC  *retirement.MigratorUseCase
}

// NewAssociateHandler construye el handler.
func NewAssociateHandler(
	associateUC *usecase.AssociateUseCase,
	deliverUC *appdelivery.DeliverUseCase,
	migratorUC *retirement.MigratorUseCase,
) *AssociateHandler {
	return &AssociateHandler{associateUC: associateUC, deliverUC: deliverUC, migratorUC: migratorUC}
}

// List godoc
// @Summary      Buscar asociados
// @Tags         associates
// @Security     Bearer
// @Produce      json
// @Param        q       query  string  false  "Término de búsqueda (cédula, nombre, apellido; ignora tildes)"
// @Param        limit   query  int     false  "Tamaño de página (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.AssociateResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/associates [get]
func (h *AssociateHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	associates, err := h.associateUC.List(c.Context(), c.Query("q"), page.Limit, page.Offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	out := make([]dto.AssociateResponse, 0, len(associates))
	for _, a := range associates {
		out = append(out, toAssociateResponse(a))
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear asociado
// @Tags         associates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAssociateRequest  true  "cedula, nombre, apellido, zona, fecha_ingreso"
// @Success      201  {object}  dto.AssociateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/associates [post]
func (h *AssociateHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAssociateRequest
	if !parseBody(c, &in) {
		return nil
	}
	associate, err := h.associateUC.Create(c.Context(), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAssociateResponse(associate))
}

// Get godoc
// @Summary      Consultar un asociado
// @Tags         associates
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del asociado"
// @Success      200  {object}  dto.AssociateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/associates/{id} [get]
func (h *AssociateHandler) Get(c *fiber.Ctx) error {
	associate, err := h.associateUC.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toAssociateResponse(associate))
}

// Deliveries godoc
// @Summary      Historial de entregas vivas de un asociado
// @Tags         associates
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del asociado"
// @Success      200  {array}   dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/associates/{id}/deliveries [get]
func (h *AssociateHandler) Deliveries(c *fiber.Ctx) error {
	records, err := h.deliverUC.HistoryByAssociate(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	out := make([]dto.DeliveryResponse, 0, len(records))
	for _, d := range records {
		out = append(out, toDeliveryResponse(d))
	}
	return c.JSON(out)
}

// Retire godoc
// @Summary      Retirar un asociado
// @Description  Copia el asociado y todo su historial de entregas al archivo y borra
//               las filas vivas, en una sola transacción. Si algo falla nada cambia.
// @Tags         associates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id del asociado"
// @Param        body  body  dto.RetireRequest  true  "reason"
// @Success      200  {object}  dto.RetireResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/associates/{id}/retire [post]
func (h *AssociateHandler) Retire(c *fiber.Ctx) error {
	var in dto.RetireRequest
	if !parseBody(c, &in) {
		return nil
	}
	result, err := h.migratorUC.Retire(c.Context(), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.RetireResponse{
		RetiredID:          result.RetiredID,
		ArchivedDeliveries: result.ArchivedDeliveries,
	})
}

// ListRetired godoc
// @Summary      Listar asociados retirados
// @Tags         associates
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}   dto.RetiredAssociateResponse
// @Router       /api/retired-associates [get]
func (h *AssociateHandler) ListRetired(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	retired, err := h.migratorUC.ListRetired(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	out := make([]dto.RetiredAssociateResponse, 0, len(retired))
	for _, ra := range retired {
		out = append(out, toRetiredResponse(ra))
	}
	return c.JSON(out)
}

// RetiredHistory godoc
// @Summary      Historial archivado de un retirado
// @Tags         associates
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del retirado"
// @Success      200  {array}   dto.RetiredHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/retired-associates/{id}/history [get]
func (h *AssociateHandler) RetiredHistory(c *fiber.Ctx) error {
	history, err := h.migratorUC.RetiredHistory(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	out := make([]dto.RetiredHistoryResponse, 0, len(history))
	for _, hrow := range history {
		out = append(out, dto.RetiredHistoryResponse{
			ID:           hrow.ID,
			OriginalID:   hrow.OriginalID,
			Element:      hrow.Element,
			Quantity:     hrow.Quantity,
			DeliveryDate: hrow.DeliveryDate,
			Observations: hrow.Observations,
			SignatureRef: hrow.SignatureRef,
			Status:       hrow.Status,
		})
	}
	return c.JSON(out)
}

func toAssociateResponse(a *entity.Associate) dto.AssociateResponse {
	return dto.AssociateResponse{
		ID:           a.ID,
		Cedula:       a.Cedula,
		Nombre:       a.Nombre,
		Apellido:     a.Apellido,
		Zona:         a.Zona,
		FechaIngreso: a.FechaIngreso,
	}
}

func toRetiredResponse(ra *entity.RetiredAssociate) dto.RetiredAssociateResponse {
	return dto.RetiredAssociateResponse{
		ID:            ra.ID,
		Cedula:        ra.Cedula,
		Nombre:        ra.Nombre,
		Apellido:      ra.Apellido,
		Zona:          ra.Zona,
		FechaIngreso:  ra.FechaIngreso,
		RetiredDate:   ra.RetiredDate,
		RetiredReason: ra.RetiredReason,
		RetiredBy:     ra.RetiredBy,
	}
}
