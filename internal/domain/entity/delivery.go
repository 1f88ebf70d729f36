package entity

import "time"

// Estados de un registro de entrega.
const (
	DeliveryStatusActive   = "active"
	DeliveryStatusReverted = "reverted"
)

// DeliveryRecord registra la entrega de un elemento de dotación a un asociado.
// Nace active; revertirla devuelve la cantidad al stock exactamente una vez y la
// marca reverted. Al retirarse el asociado, el registro se copia al archivo y se
// elimina del esquema vivo.
type DeliveryRecord struct {
	ID           string
	AssociateID  string
	SupplyItemID string
	Element      string // nombre del elemento, calificado con talla si aplica
	Quantity     int
	DeliveryDate time.Time
	Observations string
	SignatureRef string // referencia opaca a la firma digital (URL/clave externa)
	Status       string // active | reverted
	MovementID   string // movimiento salida que descontó el stock
	CreatedBy    string
	RevertedBy   string
	RevertedAt   *time.Time
	RevertReason string
}
