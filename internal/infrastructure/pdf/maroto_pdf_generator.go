// Package pdf genera la representación gráfica de facturas con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + CUIT        │  N° Factura + Fechas         │
//	│  CLIENTE: Nombre + CUIT + Email                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Subtotal               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / IVA / Total / Cobrado / Saldo           │
//	│  APLICACIONES: cobros y notas de crédito                     │
//	│  FOOTER: QR de verificación + estado                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/erp-core/internal/application/billing"
	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 20, Blue: 20}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// Issuer datos del emisor impresos en el encabezado.
type Issuer struct {
	Name  string
	TaxID string
}

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	issuer Issuer
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(issuer Issuer) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{issuer: issuer}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc appbilling.InvoiceDocument) ([]byte, error) {
	if doc.Invoice == nil || doc.Customer == nil {
		return nil, fmt.Errorf("pdf: factura y cliente son obligatorios")
	}
	inv := doc.Invoice
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+inv.Number, true).
		WithAuthor(g.issuer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(doc.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(lineRows(inv)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv))

	if len(doc.Collections) > 0 || len(doc.CreditNotes) > 0 {
		m.AddRows(applicationRows(doc)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(inv))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor (izq) y número + fechas (der).
func (g *MarotoPDFGenerator) headerRow(inv *entity.Invoice) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(g.issuer.Name, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CUIT: "+nonEmpty(g.issuer.TaxID, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Emisión: "+inv.IssueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Vencimiento: "+inv.DueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

func customerRow(c *entity.Customer) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("CUIT: %s   |   Email: %s",
				nonEmpty(c.TaxID, "—"),
				nonEmpty(c.Email, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// lineRows: una fila por línea de factura.
func lineRows(inv *entity.Invoice) []core.Row {
	result := make([]core.Row, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		desc := l.Description
		if l.ProductCode != "" && l.ProductCode != desc {
			desc = l.ProductCode + " - " + desc
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(desc, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(money(inv.Currency, l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(money(inv.Currency, l.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(inv *entity.Invoice) core.Row {
	labels := []string{"Subtotal:", "IVA " + inv.TaxRate.StringFixed(2) + "%:", "TOTAL:", "Cobrado:", "SALDO:"}
	values := []decimal.Decimal{inv.Subtotal, inv.TaxAmount, inv.Total, inv.AmountCollected, inv.BalanceDue}

	left, right := col.New(3), col.New(3)
	for i := range labels {
		top := float64(i) * 5
		style := props.Text{Size: 9, Align: align.Right, Right: 2, Top: top}
		if i == 2 || i == 4 {
			style.Style, style.Color = fontstyle.Bold, colorPrimary
		}
		left.Add(text.New(labels[i], style))
		v := style
		v.Right = 1
		right.Add(text.New(money(inv.Currency, values[i]), v))
	}
	return row.New(27).Add(col.New(6), left, right)
}

// applicationRows: cobros vigentes y notas de crédito aplicadas.
func applicationRows(doc appbilling.InvoiceDocument) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(text.New("APLICACIONES", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
		}))),
	}
	add := func(number, date, detail string, amount decimal.Decimal) {
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(number, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(date, props.Text{Size: 8, Top: 1, Color: colorGray})),
			col.New(4).Add(text.New(detail, props.Text{Size: 8, Top: 1, Color: colorGray})),
			col.New(3).Add(text.New(money(doc.Invoice.Currency, amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	for _, c := range doc.Collections {
		add(c.Number, c.Date.Format("02/01/2006"), strings.TrimSpace(c.Method+" "+c.Reference), c.Amount)
	}
	for _, n := range doc.CreditNotes {
		date := n.CreatedAt
		if n.AppliedAt != nil {
			date = *n.AppliedAt
		}
		add(n.Number, date.Format("02/01/2006"), n.Reason, n.Total)
	}
	return rows
}

// footerRow: QR con los datos de verificación y estado de la factura.
func footerRow(inv *entity.Invoice) core.Row {
	status := text.New("Estado: "+inv.Status, props.Text{
		Style: fontstyle.Bold, Size: 10, Top: 4, Left: 3, Color: colorPrimary,
	})
	if inv.IsVoid() {
		status = text.New("FACTURA ANULADA", props.Text{
			Style: fontstyle.Bold, Size: 12, Top: 4, Left: 3, Color: colorRed,
		})
	}
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(verificationData(inv), props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			status,
			text.New("Escanee el código QR para verificar número, total y saldo de esta factura.", props.Text{
				Size: 8, Top: 14, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func verificationData(inv *entity.Invoice) string {
	return fmt.Sprintf("factura=%s;cliente=%s;total=%s;saldo=%s;moneda=%s;estado=%s",
		inv.Number, inv.CustomerID, inv.Total.StringFixed(2), inv.BalanceDue.StringFixed(2), inv.Currency, inv.Status)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func money(currency string, d decimal.Decimal) string {
	return currency + " " + formatMoney(d.StringFixed(2))
}

// formatMoney formatea un importe con punto de miles y coma decimal.
// Ej: "25000.50" → "25.000,50", "-1000000.00" → "-1.000.000,00"
func formatMoney(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := sign + string(buf)
	if hasFrac {
		out += "," + frac
	}
	return out
}
