package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeEntrada = "entrada" // recepción de stock
	MovementTypeSalida  = "salida"  // descuento por entrega
)

// MovementEntry es una línea del log de movimientos: cada cambio de cantidad de un
// elemento queda registrado aquí con la cantidad anterior y la nueva. El log es
// append-only; la única mutación permitida es marcar la entrada como revertida,
// y eso puede ocurrir a lo sumo una vez.
type MovementEntry struct {
	ID           string
	SupplyItemID string
	Type         string // entrada | salida
	Quantity     int    // siempre positivo; el signo lo da Type
	PrevQuantity int
	NewQuantity  int
	Reason       string
	Notes        string
	Actor        string
	CreatedAt    time.Time
	Reverted     bool
	RevertedBy   string
	RevertedAt   *time.Time
	RevertReason string
}

// SignedDelta devuelve el efecto del movimiento sobre el stock (+ entrada, - salida).
func (m *MovementEntry) SignedDelta() int {
	if m.Type == MovementTypeSalida {
		return -m.Quantity
	}
	return m.Quantity
}
