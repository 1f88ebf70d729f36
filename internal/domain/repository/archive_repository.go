package repository

import "github.com/coopvalle/dotaciones-api/internal/domain/entity"

// ArchiveRepository define el puerto del esquema de retirados (append-only).
type ArchiveRepository interface {
	CreateRetired(retired *entity.RetiredAssociate) error
	CreateHistory(history *entity.RetiredDeliveryHistory) error
	GetRetiredByID(id string) (*entity.RetiredAssociate, error)
	ListRetired(limit, offset int) ([]*entity.RetiredAssociate, error)
	// ListHistoryByRetired devuelve el historial archivado ordenado por fecha de entrega.
	ListHistoryByRetired(retiredID string) ([]*entity.RetiredDeliveryHistory, error)
}
