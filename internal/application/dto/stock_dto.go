package dto

import "time"

// CreateSupplyRequest body para POST /api/supplies. El stock inicial entra después
// como recepción, para que toda cantidad tenga su movimiento pareado.
type CreateSupplyRequest struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Category    string `json:"category"`
	Size        string `json:"size"`
	MinQuantity int    `json:"min_quantity" validate:"min=0"`
}

// SupplyItemResponse una línea de inventario.
type SupplyItemResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Size        string    `json:"size,omitempty"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
	LowStock    bool      `json:"low_stock"`
	LastUpdate  time.Time `json:"last_update"`
}

// StockReceiptRequest body para POST /api/stock/receipts.
type StockReceiptRequest struct {
	ItemRef  string `json:"item_ref" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Reason   string `json:"reason" validate:"required"`
	Notes    string `json:"notes"`
}

// RevertRequest body para los reverts de recepción y de entrega.
type RevertRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// MovementResponse una entrada del log de movimientos.
type MovementResponse struct {
	ID           string     `json:"id"`
	SupplyItemID string     `json:"supply_item_id"`
	Type         string     `json:"type"`
	Quantity     int        `json:"quantity"`
	PrevQuantity int        `json:"previous_quantity"`
	NewQuantity  int        `json:"new_quantity"`
	Reason       string     `json:"reason"`
	Notes        string     `json:"notes,omitempty"`
	Actor        string     `json:"actor"`
	CreatedAt    time.Time  `json:"created_at"`
	Reverted     bool       `json:"reverted"`
	RevertedBy   string     `json:"reverted_by,omitempty"`
	RevertedAt   *time.Time `json:"reverted_at,omitempty"`
	RevertReason string     `json:"revert_reason,omitempty"`
}

// NewStockResponse respuesta de los reverts: cantidad resultante en stock.
type NewStockResponse struct {
	NewStock int `json:"new_stock"`
}
