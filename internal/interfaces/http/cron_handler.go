package http

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/cartera-pro/internal/application/billing"
	"github.com/tu-usuario/cartera-pro/internal/application/dto"
)

// CronHandler endpoints invocados por el scheduler externo.
type CronHandler struct {
	uc     *billing.OverdueUseCase
	secret string
}

// NewCronHandler construye el handler con el secreto compartido del scheduler.
func NewCronHandler(uc *billing.OverdueUseCase, secret string) *CronHandler {
	return &CronHandler{uc: uc, secret: secret}
}

// CheckOverdueInvoices barrida de facturas PENDING vencidas hacia PAST_DUE.
// El scheduler se autentica con ?secret=<CRON_SECRET>.
// GET /api/cron/check-overdue-invoices?secret=
func (h *CronHandler) CheckOverdueInvoices(c *fiber.Ctx) error {
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(c.Query("secret")), []byte(h.secret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "secreto inválido"})
	}
	updated, err := h.uc.Sweep(c.Context(), time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.SweepResponse{Success: true, UpdatedInvoices: updated})
}
