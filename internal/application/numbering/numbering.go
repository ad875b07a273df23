// Package numbering asigna números de documento dentro de la transacción que los usa.
package numbering

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/erp-core/internal/domain/repository"
	"github.com/jhoicas/erp-core/pkg/codigo"
)

// Kind contador y prefijo de un tipo de documento.
type Kind struct {
	Counter string
	Prefix  string
}

var (
	Invoice       = Kind{Counter: "invoice", Prefix: codigo.PrefixInvoice}
	CreditNote    = Kind{Counter: "credit_note", Prefix: codigo.PrefixCreditNote}
	Collection    = Kind{Counter: "collection", Prefix: codigo.PrefixCollection}
	VendorPayment = Kind{Counter: "vendor_payment", Prefix: codigo.PrefixVendorPayment}
	JournalEntry  = Kind{Counter: "journal_entry", Prefix: codigo.PrefixJournalEntry}
	StockMovement = Kind{Counter: "stock_movement", Prefix: codigo.PrefixStockMovement}
)

// Next toma el siguiente número del contador y lo formatea con el año de at.
func Next(ctx context.Context, counters repository.CounterRepository, k Kind, at time.Time) (int64, string, error) {
	n, err := counters.Next(ctx, k.Counter)
	if err != nil {
		return 0, "", fmt.Errorf("next %s: %w", k.Counter, err)
	}
	return n, codigo.Format(k.Prefix, at, n), nil
}
