package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coopvalle/dotaciones-api/internal/application/usecase"
)

// StatsHandler expone las métricas agregadas (protegido).
type StatsHandler struct {
	statsUC *usecase.StatsUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(statsUC *usecase.StatsUseCase) *StatsHandler {
	return &StatsHandler{statsUC: statsUC}
}

// Stats godoc
// @Summary      Métricas de inventario y entregas
// @Tags         stats
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StatsResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/stats [get]
func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.statsUC.Stats(c.Context())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(stats)
}
