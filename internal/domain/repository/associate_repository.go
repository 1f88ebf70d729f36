package repository

import "github.com/coopvalle/dotaciones-api/internal/domain/entity"

// AssociateRepository define el puerto de persistencia de asociados vivos.
// Delete solo lo usa el retiro, dentro de su transacción.
type AssociateRepository interface {
	Create(associate *entity.Associate) error
	GetByID(id string) (*entity.Associate, error)
	GetByCedula(cedula string) (*entity.Associate, error)
	// List filtra por término de búsqueda ya normalizado (sin tildes, minúsculas).
	List(search string, limit, offset int) ([]*entity.Associate, error)
	Delete(id string) error
}
