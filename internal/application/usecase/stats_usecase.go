package usecase

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/coopvalle/dotaciones-api/internal/application/dto"
	"github.com/coopvalle/dotaciones-api/internal/domain/repository"
)

// Tamaño promedio observado de una firma digitalizada (PNG) en KB. El colaborador
// de limpieza usa la estimación para decidir cuándo depurar firmas archivadas.
var signatureAvgKB = decimal.NewFromInt(18)

var kbPerMB = decimal.NewFromInt(1024)

// StatsUseCase métricas agregadas de inventario y entregas.
type StatsUseCase struct {
	statsRepo repository.StatsRepository
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(statsRepo repository.StatsRepository) *StatsUseCase {
	return &StatsUseCase{statsRepo: statsRepo}
}

// Stats devuelve conteo de elementos y asociados, entregas por año/mes y la
// estimación del espacio ocupado por firmas (vivas + archivadas) en MB.
func (uc *StatsUseCase) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	totalItems, err := uc.statsRepo.TotalItems(ctx)
	if err != nil {
		return nil, err
	}
	totalAssociates, err := uc.statsRepo.TotalAssociates(ctx)
	if err != nil {
		return nil, err
	}
	periods, err := uc.statsRepo.DeliveryCountsByPeriod(ctx)
	if err != nil {
		return nil, err
	}
	live, archived, err := uc.statsRepo.SignatureCounts(ctx)
	if err != nil {
		return nil, err
	}
	avg, err := uc.statsRepo.AvgQuantityPerDelivery(ctx)
	if err != nil {
		return nil, err
	}

	footprint := decimal.NewFromInt(int64(live + archived)).
		Mul(signatureAvgKB).
		Div(kbPerMB).
		Round(2)

	return &dto.StatsResponse{
		TotalItems:           totalItems,
		TotalAssociates:      totalAssociates,
		DeliveriesByYear:     groupByYear(periods),
		SignaturesLive:       live,
		SignaturesArchived:   archived,
		SignatureFootprintMB: footprint,
		AvgQuantityPerEntry:  avg.Round(2),
	}, nil
}

// groupByYear agrupa los conteos mensuales por año, años y meses descendentes.
func groupByYear(periods []repository.PeriodCount) []dto.YearCount {
	byYear := make(map[int]*dto.YearCount)
	for _, p := range periods {
		yc, ok := byYear[p.Year]
		if !ok {
			yc = &dto.YearCount{Year: p.Year}
			byYear[p.Year] = yc
		}
		yc.Total += p.Count
		yc.Months = append(yc.Months, dto.MonthCount{Month: p.Month, Count: p.Count})
	}
	years := make([]dto.YearCount, 0, len(byYear))
	for _, yc := range byYear {
		sort.Slice(yc.Months, func(i, j int) bool { return yc.Months[i].Month > yc.Months[j].Month })
		years = append(years, *yc)
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year > years[j].Year })
	return years
}
