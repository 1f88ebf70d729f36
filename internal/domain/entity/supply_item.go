package entity

import "time"

// SupplyItem representa un elemento de dotación (prenda, accesorio) con su stock actual.
// La cantidad nunca es negativa y solo cambia a través del ledger de stock; los
// elementos con cantidad cero permanecen visibles (nunca se eliminan).
type SupplyItem struct {
	ID          string
	Code        string // código único del elemento
	Name        string
	Category    string
	Size        string // talla opcional ("" = sin talla)
	Quantity    int
	MinQuantity int // umbral para alerta de stock bajo
	LastUpdate  time.Time
	CreatedAt   time.Time
}

// LowStock indica si el elemento está en o por debajo de su umbral mínimo.
func (s *SupplyItem) LowStock() bool {
	return s.Quantity <= s.MinQuantity
}

// DisplayName devuelve el nombre calificado con la talla si existe ("Camisa (M)").
func (s *SupplyItem) DisplayName() string {
	if s.Size == "" {
		return s.Name
	}
	return s.Name + " (" + s.Size + ")"
}
