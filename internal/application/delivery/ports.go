package delivery

import (
	"context"

	"github.com/coopvalle/dotaciones-api/internal/domain/repository"
)

// TxRunner ejecuta la fase de commit de una entrega dentro de una sola transacción:
// o todas las líneas quedan aplicadas (descuento + registro + movimiento) o ninguna.
type TxRunner interface {
	RunDelivery(ctx context.Context, fn func(
		itemRepo repository.SupplyItemRepository,
		movRepo repository.MovementRepository,
		deliveryRepo repository.DeliveryRepository,
	) error) error
}
