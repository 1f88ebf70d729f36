package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// PeriodCount agrupa entregas por año/mes.
type PeriodCount struct {
	Year  int
	Month int
	Count int
}

// StatsRepository consultas de solo lectura para el tablero y el colaborador de limpieza.
type StatsRepository interface {
	TotalItems(ctx context.Context) (int, error)
	TotalAssociates(ctx context.Context) (int, error)
	// DeliveryCountsByPeriod cuenta entregas (vivas y archivadas) por año/mes,
	// orden descendente por período.
	DeliveryCountsByPeriod(ctx context.Context) ([]PeriodCount, error)
	// SignatureCounts cuenta referencias de firma no vacías en entregas vivas y archivadas.
	SignatureCounts(ctx context.Context) (live, archived int, err error)
	// AvgQuantityPerDelivery promedio de unidades por entrega (vivas y archivadas).
	AvgQuantityPerDelivery(ctx context.Context) (decimal.Decimal, error)
}
