package dto

import "time"

// CreateAssociateRequest body para POST /api/associates.
type CreateAssociateRequest struct {
	Cedula       string `json:"cedula" validate:"required"`
	Nombre       string `json:"nombre" validate:"required"`
	Apellido     string `json:"apellido" validate:"required"`
	Zona         string `json:"zona"`
	FechaIngreso string `json:"fecha_ingreso" validate:"omitempty,datetime=2006-01-02"`
}

// AssociateResponse un asociado vivo.
type AssociateResponse struct {
	ID           string    `json:"id"`
	Cedula       string    `json:"cedula"`
	Nombre       string    `json:"nombre"`
	Apellido     string    `json:"apellido"`
	Zona         string    `json:"zona,omitempty"`
	FechaIngreso time.Time `json:"fecha_ingreso"`
}

// RetireRequest body para POST /api/associates/:id/retire.
type RetireRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// RetireResponse resultado del retiro.
type RetireResponse struct {
	RetiredID          string `json:"retired_id"`
	ArchivedDeliveries int    `json:"archived_deliveries"`
}

// RetiredAssociateResponse un asociado archivado.
type RetiredAssociateResponse struct {
	ID            string    `json:"id"`
	Cedula        string    `json:"cedula"`
	Nombre        string    `json:"nombre"`
	Apellido      string    `json:"apellido"`
	Zona          string    `json:"zona,omitempty"`
	FechaIngreso  time.Time `json:"fecha_ingreso"`
	RetiredDate   time.Time `json:"retired_date"`
	RetiredReason string    `json:"retired_reason"`
	RetiredBy     string    `json:"retired_by"`
}

// RetiredHistoryResponse una entrega archivada.
type RetiredHistoryResponse struct {
	ID           string    `json:"id"`
	OriginalID   string    `json:"original_delivery_id"`
	Element      string    `json:"element"`
	Quantity     int       `json:"quantity"`
	DeliveryDate time.Time `json:"delivery_date"`
	Observations string    `json:"observations,omitempty"`
	SignatureRef string    `json:"signature_ref,omitempty"`
	Status       string    `json:"status"`
}
