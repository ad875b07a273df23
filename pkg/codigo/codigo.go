// Package codigo genera y valida los códigos legibles de documentos (PREFIJO-AAAA-NNNN).
package codigo

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Prefijos por tipo de documento.
const (
	PrefixInvoice       = "FAC"
	PrefixCreditNote    = "NC"
	PrefixCollection    = "COB"
	PrefixVendorPayment = "PAG"
	PrefixJournalEntry  = "AST"
	PrefixStockMovement = "MOV"
)

// Format arma el código con el año de at y la secuencia con al menos 4 dígitos.
func Format(prefix string, at time.Time, seq int64) string {
	return fmt.Sprintf("%s-%04d-%04d", prefix, at.Year(), seq)
}

// Parse descompone un código en prefijo, año y secuencia.
func Parse(code string) (prefix string, year int, seq int64, err error) {
	parts := strings.Split(code, "-")
	if len(parts) != 3 || parts[0] == "" {
		return "", 0, 0, fmt.Errorf("código con formato inválido: %q", code)
	}
	year, err = strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 4 {
		return "", 0, 0, fmt.Errorf("año inválido en código %q", code)
	}
	seq, err = strconv.ParseInt(parts[2], 10, 64)
	if err != nil || seq <= 0 || len(parts[2]) < 4 {
		return "", 0, 0, fmt.Errorf("secuencia inválida en código %q", code)
	}
	return parts[0], year, seq, nil
}
