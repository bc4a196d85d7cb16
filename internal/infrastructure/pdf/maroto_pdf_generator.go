// Package pdf implementa la generación del estado de cuenta de una factura
// en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + N° Factura  │  Estado + Fecha de emisión  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + contacto + ID externo                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Monto / Vencimiento / Descripción                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Historial de cambios (campo, anterior, nuevo, fecha)│
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tu-usuario/cartera-pro/internal/application/billing"
	"github.com/tu-usuario/cartera-pro/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

var _ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// GenerateInvoicePDF genera el PDF del estado de cuenta y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	customer *entity.Customer,
	auditLogs []*entity.InvoiceAuditLog,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Estado de Cuenta - Factura", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(invoice))

	// Historial de auditoría
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(auditHeaderRow())
	for _, r := range auditDetailRows(auditLogs) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + ID de factura (izq) y estado + fecha de emisión (der).
func headerRow(invoice *entity.Invoice) core.Row {
	statusColor := colorPrimary
	if invoice.Status == entity.StatusPastDue {
		statusColor = colorDanger
	}
	emitted := invoice.CreatedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("ESTADO DE CUENTA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Factura: "+invoice.ID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(invoice.DisplayStatus(), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right,
				Color: statusColor, Top: 1,
			}),
			text.New("Emitida: "+emitted, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del cliente facturado.
func customerRow(customer *entity.Customer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Tel: %s   |   ID externo: %s",
				nonEmpty(customer.Email, "—"),
				nonEmpty(customer.Phone, "—"),
				nonEmpty(customer.ExternalID, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// summaryRow: monto, vencimiento y descripción de la factura.
func summaryRow(invoice *entity.Invoice) core.Row {
	return row.New(20).Add(
		col.New(4).Add(
			text.New("MONTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New("$"+invoice.Amount.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 12, Top: 7,
			}),
		),
		col.New(4).Add(
			text.New("VENCIMIENTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.DueDate.Format("02/01/2006"), props.Text{
				Size: 10, Top: 7,
			}),
		),
		col.New(4).Add(
			text.New("DESCRIPCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(invoice.Description, "—"), props.Text{
				Size: 9, Top: 7, Color: colorGray,
			}),
		),
	)
}

// auditHeaderRow: cabecera de la tabla del historial de cambios.
func auditHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Campo", 2, align.Left),
		h("Valor anterior", 3, align.Left),
		h("Valor nuevo", 4, align.Left),
		h("Fecha", 3, align.Right),
	)
}

// auditDetailRows: una fila por entrada de auditoría.
func auditDetailRows(logs []*entity.InvoiceAuditLog) []core.Row {
	result := make([]core.Row, 0, len(logs))
	for _, l := range logs {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				l.FieldChanged,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				nonEmpty(l.PreviousValue, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1, Color: colorGray},
			)),
			col.New(4).Add(text.New(
				l.NewValue,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				l.Timestamp.Format("02/01/2006 15:04"),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorGray},
			)),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
