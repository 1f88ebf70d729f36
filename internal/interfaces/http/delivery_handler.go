package http

import (
	"github.com/gofiber/fiber/v2"

	appdelivery "github.com/coopvalle/dotaciones-api/internal/application/delivery"
	"github.com/coopvalle/dotaciones-api/internal/application/dto"
	"github.com/coopvalle/dotaciones-api/internal/domain/entity"
)

// DeliveryHandler maneja las entregas de dotación y su revert (protegido).
type DeliveryHandler struct {
	deliverUC *appdelivery.DeliverUseCase
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(deliverUC *appdelivery.DeliverUseCase) *DeliveryHandler {
	return &DeliveryHandler{deliverUC: deliverUC}
}

// Deliver godoc
// @Summary      Entregar dotación a un asociado
// @Description  Valida TODAS las líneas contra el stock y solo entonces las aplica
//               dentro de una transacción. Si alguna línea no tiene stock, responde
//               409 con el detalle por línea y no descuenta nada.
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeliverRequest  true  "associate_id, lines[{element, quantity}], observations, signature_ref"
// @Success      201  {object}  dto.DeliverResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries [post]
func (h *DeliveryHandler) Deliver(c *fiber.Ctx) error {
	var in dto.DeliverRequest
	if !parseBody(c, &in) {
		return nil
	}
	lines := make([]appdelivery.Line, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, appdelivery.Line{Element: l.Element, Quantity: l.Quantity})
	}
	result, err := h.deliverUC.Deliver(c.Context(), appdelivery.DeliverInput{
		AssociateID:  in.AssociateID,
		Lines:        lines,
		Observations: in.Observations,
		SignatureRef: in.SignatureRef,
		Actor:        GetUserID(c),
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.DeliverResponse{
		DeliveryIDs: result.DeliveryIDs,
		MovementIDs: result.MovementIDs,
	})
}

// Revert godoc
// @Summary      Revertir una entrega
// @Description  Devuelve la cantidad al stock y marca la entrega como reverted, a lo
//               sumo una vez; el segundo intento responde 409 sin tocar el stock.
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id de la entrega"
// @Param        body  body  dto.RevertRequest  true  "reason"
// @Success      200  {object}  dto.NewStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/revert [post]
func (h *DeliveryHandler) Revert(c *fiber.Ctx) error {
	var in dto.RevertRequest
	if !parseBody(c, &in) {
		return nil
	}
	newStock, err := h.deliverUC.Revert(c.Context(), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.NewStockResponse{NewStock: newStock})
}

func toDeliveryResponse(d *entity.DeliveryRecord) dto.DeliveryResponse {
	return dto.DeliveryResponse{
		ID:           d.ID,
		AssociateID:  d.AssociateID,
		Element:      d.Element,
		Quantity:     d.Quantity,
		DeliveryDate: d.DeliveryDate,
		Observations: d.Observations,
		SignatureRef: d.SignatureRef,
		Status:       d.Status,
		RevertedBy:   d.RevertedBy,
		RevertedAt:   d.RevertedAt,
		RevertReason: d.RevertReason,
	}
}
