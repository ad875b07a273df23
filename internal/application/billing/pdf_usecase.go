package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura.
type PDFUseCase struct {
	store     repository.Store
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(store repository.Store, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{store: store, generator: generator}
}

// InvoicePDF recupera la factura con su cliente, cobros vigentes y notas aplicadas y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrInvoiceNotFound  si la factura no existe.
func (uc *PDFUseCase) InvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	repos := uc.store.Repos()

	// ── 1. Cargar factura ─────────────────────────────────────────────────────
	inv, err := repos.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrInvoiceNotFound
	}

	// ── 2. Cargar cliente ─────────────────────────────────────────────────────
	customer, err := repos.Customers.GetByID(ctx, inv.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, "", fmt.Errorf("pdf: %w", domain.ErrCustomerNotFound)
	}

	// ── 3. Cobros vigentes y notas aplicadas ──────────────────────────────────
	cols, err := repos.Collections.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cobros: %w", err)
	}
	notes, err := repos.CreditNotes.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener notas de crédito: %w", err)
	}
	doc := InvoiceDocument{Invoice: inv, Customer: customer}
	for _, c := range cols {
		if !c.Voided {
			doc.Collections = append(doc.Collections, c)
		}
	}
	for _, n := range notes {
		if n.Applied {
			doc.CreditNotes = append(doc.CreditNotes, n)
		}
	}

	// ── 4. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, Filename(inv), nil
}

// Filename nombre de descarga del PDF de una factura.
func Filename(inv *entity.Invoice) string {
	return fmt.Sprintf("factura_%s.pdf", inv.Number)
}
