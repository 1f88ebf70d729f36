package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/coopvalle/dotaciones-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas de solo lectura para el tablero y el colaborador de limpieza de firmas.
type StatsRepo struct {
	pool *pgxpool.Pool
}

// NewStatsRepository construye el adaptador de métricas.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// TotalItems cuenta los elementos de dotación (incluye los de cantidad cero).
func (r *StatsRepo) TotalItems(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM supply_item`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("stats.TotalItems: %w", err)
	}
	return n, nil
}

// TotalAssociates cuenta los asociados vivos.
func (r *StatsRepo) TotalAssociates(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM associate`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("stats.TotalAssociates: %w", err)
	}
	return n, nil
}

// DeliveryCountsByPeriod cuenta entregas por año/mes, vivas y archivadas juntas,
// orden descendente por período.
func (r *StatsRepo) DeliveryCountsByPeriod(ctx context.Context) ([]repository.PeriodCount, error) {
	const query = `
	SELECT year, month, SUM(cnt)::INT AS cnt FROM (
	    SELECT EXTRACT(YEAR FROM delivery_date)::INT  AS year,
	           EXTRACT(MONTH FROM delivery_date)::INT AS month,
	           COUNT(*)                               AS cnt
	    FROM delivery_record
	    GROUP BY 1, 2
	    UNION ALL
	    SELECT EXTRACT(YEAR FROM delivery_date)::INT,
	           EXTRACT(MONTH FROM delivery_date)::INT,
	           COUNT(*)
	    FROM retired_delivery_history
	    GROUP BY 1, 2
	) p
	GROUP BY year, month
	ORDER BY year DESC, month DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stats.DeliveryCountsByPeriod: %w", err)
	}
	defer rows.Close()
	var out []repository.PeriodCount
	for rows.Next() {
		var p repository.PeriodCount
		if err := rows.Scan(&p.Year, &p.Month, &p.Count); err != nil {
			return nil, fmt.Errorf("stats.DeliveryCountsByPeriod scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SignatureCounts cuenta referencias de firma no vacías en entregas vivas y archivadas.
func (r *StatsRepo) SignatureCounts(ctx context.Context) (live, archived int, err error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM delivery_record          WHERE signature_ref IS NOT NULL AND signature_ref <> ''),
	    (SELECT COUNT(*) FROM retired_delivery_history WHERE signature_ref IS NOT NULL AND signature_ref <> '')`
	if err := r.pool.QueryRow(ctx, query).Scan(&live, &archived); err != nil {
		return 0, 0, fmt.Errorf("stats.SignatureCounts: %w", err)
	}
	return live, archived, nil
}

// AvgQuantityPerDelivery promedio de unidades por entrega sobre vivas y archivadas.
// AVG devuelve NUMERIC; el codec del pool lo mapea a shopspring/decimal.
func (r *StatsRepo) AvgQuantityPerDelivery(ctx context.Context) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(AVG(quantity), 0) FROM (
	    SELECT quantity FROM delivery_record
	    UNION ALL
	    SELECT quantity FROM retired_delivery_history
	) q`
	var avg decimal.Decimal
	if err := r.pool.QueryRow(ctx, query).Scan(&avg); err != nil {
		return decimal.Zero, fmt.Errorf("stats.AvgQuantityPerDelivery: %w", err)
	}
	return avg, nil
}
