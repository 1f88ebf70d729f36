package stock

import (
	"context"

	"github.com/coopvalle/dotaciones-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el ledger de stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.SupplyItemRepository,
		movRepo repository.MovementRepository,
	) error) error
}
