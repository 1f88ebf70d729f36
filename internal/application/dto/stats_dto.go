package dto

import "github.com/shopspring/decimal"

// MonthCount entregas de un mes.
type MonthCount struct {
	Month int `json:"month"`
	Count int `json:"count"`
}

// YearCount entregas de un año, desglosadas por mes.
type YearCount struct {
	Year   int          `json:"year"`
	Total  int          `json:"total"`
	Months []MonthCount `json:"months"`
}

// StatsResponse métricas para el tablero y el colaborador de limpieza de firmas.
type StatsResponse struct {
	TotalItems           int             `json:"total_items"`
	TotalAssociates      int             `json:"total_associates"`
	DeliveriesByYear     []YearCount     `json:"deliveries_by_year"`
	SignaturesLive       int             `json:"signatures_live"`
	SignaturesArchived   int             `json:"signatures_archived"`
	SignatureFootprintMB decimal.Decimal `json:"signature_footprint_mb"`
	AvgQuantityPerEntry  decimal.Decimal `json:"avg_quantity_per_delivery"`
}
