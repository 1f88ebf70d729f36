package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coopvalle/dotaciones-api/internal/application/dto"
	"github.com/coopvalle/dotaciones-api/internal/application/stock"
	"github.com/coopvalle/dotaciones-api/internal/application/usecase"
	"github.com/coopvalle/dotaciones-api/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP de inventario: elementos, recepciones,
// log de movimientos y revert de recepciones (protegido).
type StockHandler struct {
	supplyUC *usecase.SupplyUseCase
	ledger   *stock.LedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(supplyUC *usecase.SupplyUseCase, ledger *stock.LedgerUseCase) *StockHandler {
	return &StockHandler{supplyUC: supplyUC, ledger: ledger}
}

// ListSupplies godoc
// @Summary      Listar inventario
// @Description  Devuelve los elementos en orden de presentación: alfabético por
//               nombre con desempate por el orden de tallas.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        low_stock  query  bool  false  "Solo elementos en o bajo su mínimo"
// @Success      200  {array}   dto.SupplyItemResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/supplies [get]
func (h *StockHandler) ListSupplies(c *fiber.Ctx) error {
	lowOnly := c.QueryBool("low_stock")
	items, err := h.supplyUC.List(c.Context(), lowOnly)
	if err != nil {
		return mapDomainError(c, err)
	}
	out := make([]dto.SupplyItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toSupplyResponse(it))
	}
	return c.JSON(out)
}

// CreateSupply godoc
// @Summary      Crear elemento de dotación
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupplyRequest  true  "code, name, category, size, min_quantity"
// @Success      201  {object}  dto.SupplyItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/supplies [post]
func (h *StockHandler) CreateSupply(c *fiber.Ctx) error {
	var in dto.CreateSupplyRequest
	if !parseBody(c, &in) {
		return nil
	}
	item, err := h.supplyUC.Create(c.Context(), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSupplyResponse(item))
}

// GetSupply godoc
// @Summary      Consultar un elemento por id o código
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        ref  path  string  true  "id o código del elemento"
// @Success      200  {object}  dto.SupplyItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplies/{ref} [get]
func (h *StockHandler) GetSupply(c *fiber.Ctx) error {
	item, err := h.supplyUC.Get(c.Context(), c.Params("ref"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toSupplyResponse(item))
}

// Receipt godoc
// @Summary      Registrar recepción de stock (entrada)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockReceiptRequest  true  "item_ref (id o código), quantity > 0, reason"
// @Success      201  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/receipts [post]
func (h *StockHandler) Receipt(c *fiber.Ctx) error {
	var in dto.StockReceiptRequest
	if !parseBody(c, &in) {
		return nil
	}
	entry, err := h.ledger.Increase(c.Context(), stock.IncreaseInput{
		ItemRef:  in.ItemRef,
		Quantity: in.Quantity,
		Reason:   in.Reason,
		Notes:    in.Notes,
		Actor:    GetUserID(c),
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(entry))
}

// RevertReceipt godoc
// @Summary      Revertir una recepción de stock
// @Description  Resta la cantidad sumada por la entrada y marca el movimiento como
//               revertido; falla si ya lo estaba. Las salidas se revierten por la
//               ruta de entregas.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        movementId  path  string  true  "id del movimiento entrada"
// @Param        body  body  dto.RevertRequest  true  "reason"
// @Success      200  {object}  dto.NewStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/receipts/{movementId}/revert [post]
func (h *StockHandler) RevertReceipt(c *fiber.Ctx) error {
	var in dto.RevertRequest
	if !parseBody(c, &in) {
		return nil
	}
	newStock, err := h.ledger.RevertReceipt(c.Context(), c.Params("movementId"), in.Reason, GetUserID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.NewStockResponse{NewStock: newStock})
}

// ListMovements godoc
// @Summary      Consultar el log de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item    query  string  false  "Filtrar por elemento (id o código)"
// @Param        limit   query  int     false  "Tamaño de página (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	entries, err := h.ledger.ListMovements(c.Context(), c.Query("item"), page.Limit, page.Offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(entries))
	for _, m := range entries {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

func toSupplyResponse(it *entity.SupplyItem) dto.SupplyItemResponse {
	return dto.SupplyItemResponse{
		ID:          it.ID,
		Code:        it.Code,
		Name:        it.Name,
		Category:    it.Category,
		Size:        it.Size,
		Quantity:    it.Quantity,
		MinQuantity: it.MinQuantity,
		LowStock:    it.LowStock(),
		LastUpdate:  it.LastUpdate,
	}
}

func toMovementResponse(m *entity.MovementEntry) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		SupplyItemID: m.SupplyItemID,
		Type:         m.Type,
		Quantity:     m.Quantity,
		PrevQuantity: m.PrevQuantity,
		NewQuantity:  m.NewQuantity,
		Reason:       m.Reason,
		Notes:        m.Notes,
		Actor:        m.Actor,
		CreatedAt:    m.CreatedAt,
		Reverted:     m.Reverted,
		RevertedBy:   m.RevertedBy,
		RevertedAt:   m.RevertedAt,
		RevertReason: m.RevertReason,
	}
}
