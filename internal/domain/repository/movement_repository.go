package repository

import "github.com/coopvalle/dotaciones-api/internal/domain/entity"

// MovementRepository define el puerto de persistencia del log de movimientos.
// El log es append-only: la única actualización permitida es MarkReverted.
type MovementRepository interface {
	Create(movement *entity.MovementEntry) error
	GetByID(id string) (*entity.MovementEntry, error)
	// GetForUpdate bloquea la fila del movimiento (SELECT FOR UPDATE) para
	// serializar intentos concurrentes de revertir la misma entrada.
	GetForUpdate(id string) (*entity.MovementEntry, error)
	MarkReverted(id, revertedBy, revertReason string) error
	ListByItem(itemID string, limit, offset int) ([]*entity.MovementEntry, error)
	List(limit, offset int) ([]*entity.MovementEntry, error)
}
