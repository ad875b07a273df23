package codigo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/pkg/codigo"
)

func TestFormat(t *testing.T) {
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "FAC-2024-0001", codigo.Format(codigo.PrefixInvoice, at, 1))
	assert.Equal(t, "AST-2024-0420", codigo.Format(codigo.PrefixJournalEntry, at, 420))
	assert.Equal(t, "COB-2024-12345", codigo.Format(codigo.PrefixCollection, at, 12345))
}

func TestParse_IdaYVuelta(t *testing.T) {
	prefix, year, seq, err := codigo.Parse("NC-2025-0007")
	require.NoError(t, err)
	assert.Equal(t, "NC", prefix)
	assert.Equal(t, 2025, year)
	assert.Equal(t, int64(7), seq)
}

func TestParse_Invalidos(t *testing.T) {
	for _, c := range []string{"", "FAC", "FAC-24-0001", "FAC-2024-01", "FAC-2024-0000", "-2024-0001"} {
		_, _, _, err := codigo.Parse(c)
		assert.Error(t, err, c)
	}
}
