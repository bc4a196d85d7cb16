package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/cartera-pro/internal/application/billing"
	"github.com/tu-usuario/cartera-pro/internal/application/dto"
	"github.com/tu-usuario/cartera-pro/internal/domain"
)

// ExternalHandler ingesta de facturas del sistema del partner (público).
type ExternalHandler struct {
	uc *billing.ReconcileUseCase
}

// NewExternalHandler construye el handler.
func NewExternalHandler(uc *billing.ReconcileUseCase) *ExternalHandler {
	return &ExternalHandler{uc: uc}
}

// ReconcileInvoice crea o actualiza la factura asociada al external_id del
// partner. Reintentar el mismo payload es seguro.
// POST /api/external/invoices
func (h *ExternalHandler) ReconcileInvoice(c *fiber.Ctx) error {
	var in dto.ExternalInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Reconcile(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "externalCustomerId, externalInvoiceId, amount positivo y dueDate requeridos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cliente externo no registrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	status := fiber.StatusOK
	if resp.Action == billing.ActionCreated {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(resp)
}
