package repository

import "github.com/coopvalle/dotaciones-api/internal/domain/entity"

// SupplyItemRepository define el puerto de persistencia para elementos de dotación.
// Las escrituras de cantidad solo deben ocurrir dentro del ledger de stock.
type SupplyItemRepository interface {
	Create(item *entity.SupplyItem) error
	GetByID(id string) (*entity.SupplyItem, error)
	GetByCode(code string) (*entity.SupplyItem, error)
	List() ([]*entity.SupplyItem, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE); usar dentro de tx.
	GetForUpdate(id string) (*entity.SupplyItem, error)
	UpdateQuantity(id string, quantity int) error
}
