package dto

import "time"

// DeliveryLineRequest una línea de entrega: elemento (id o código) y cantidad.
type DeliveryLineRequest struct {
	Element  string `json:"element" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// DeliverRequest body para POST /api/deliveries.
type DeliverRequest struct {
	AssociateID  string                `json:"associate_id" validate:"required"`
	Lines        []DeliveryLineRequest `json:"lines" validate:"required,min=1,dive"`
	Observations string                `json:"observations"`
	SignatureRef string                `json:"signature_ref"`
}

// DeliverResponse ids creados por una entrega exitosa, en el orden de las líneas.
type DeliverResponse struct {
	DeliveryIDs []string `json:"delivery_ids"`
	MovementIDs []string `json:"movement_ids"`
}

// DeliveryResponse un registro de entrega (vivo).
type DeliveryResponse struct {
	ID           string     `json:"id"`
	AssociateID  string     `json:"associate_id"`
	Element      string     `json:"element"`
	Quantity     int        `json:"quantity"`
	DeliveryDate time.Time  `json:"delivery_date"`
	Observations string     `json:"observations,omitempty"`
	SignatureRef string     `json:"signature_ref,omitempty"`
	Status       string     `json:"status"`
	RevertedBy   string     `json:"reverted_by,omitempty"`
	RevertedAt   *time.Time `json:"reverted_at,omitempty"`
	RevertReason string     `json:"revert_reason,omitempty"`
}
