package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/cartera-pro/internal/application/analytics"
	"github.com/tu-usuario/cartera-pro/internal/application/dto"
)

// StatsHandler KPIs del dashboard (protegido).
type StatsHandler struct {
	uc *analytics.StatsUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *analytics.StatsUseCase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// Get devuelve los agregados de clientes, facturas e ingresos.
// GET /api/stats
func (h *StatsHandler) Get(c *fiber.Ctx) error {
	resp, err := h.uc.Aggregate(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(resp)
}
