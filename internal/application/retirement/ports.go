package retirement

import (
	"context"

	"github.com/coopvalle/dotaciones-api/internal/domain/repository"
)

// TxRunner ejecuta los seis pasos del retiro dentro de una sola transacción:
// copiar al archivo y borrar lo vivo son visibles juntos o no son visibles.
type TxRunner interface {
	RunRetirement(ctx context.Context, fn func(
		associateRepo repository.AssociateRepository,
		deliveryRepo repository.DeliveryRepository,
		archiveRepo repository.ArchiveRepository,
	) error) error
}
