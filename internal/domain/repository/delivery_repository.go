package repository

import "github.com/coopvalle/dotaciones-api/internal/domain/entity"

// DeliveryRepository define el puerto de persistencia de entregas vivas.
type DeliveryRepository interface {
	Create(delivery *entity.DeliveryRecord) error
	GetByID(id string) (*entity.DeliveryRecord, error)
	// GetForUpdate bloquea la fila de la entrega para el revert (una sola vez).
	GetForUpdate(id string) (*entity.DeliveryRecord, error)
	MarkReverted(id, revertedBy, revertReason string) error
	ListByAssociate(associateID string) ([]*entity.DeliveryRecord, error)
	// DeleteByAssociate elimina todas las entregas vivas del asociado y devuelve
	// cuántas filas borró. Solo lo usa el retiro, dentro de su transacción.
	DeleteByAssociate(associateID string) (int, error)
}
