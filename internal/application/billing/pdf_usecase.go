package billing

import (
	"context"
	"fmt"

	"github.com/tu-usuario/cartera-pro/internal/domain"
	"github.com/tu-usuario/cartera-pro/internal/domain/repository"
)

// PDFUseCase genera el estado de cuenta (PDF) de una factura, con los datos
// del cliente y el historial de cambios.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	auditRepo    repository.AuditLogRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditLogRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		auditRepo:    auditRepo,
		generator:    generator,
	}
}

// DownloadInvoicePDF carga factura, cliente e historial y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la factura o el cliente no existen.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}

	customer, err := uc.customerRepo.GetByID(inv.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, "", domain.ErrNotFound
	}

	logs, err := uc.auditRepo.ListByInvoice(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener historial: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, customer, logs)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("invoice_%s.pdf", inv.ID)
	return pdfBytes, filename, nil
}
