package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/pkg/logger"
)

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, "info").Component("journal")

	l.Info().Str("entry", "AST-2024-0001").Msg("asiento registrado")

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "journal", out["component"])
	assert.Equal(t, "AST-2024-0001", out["entry"])
	assert.Equal(t, "info", out["level"])
}

func TestNivel_FiltraDebug(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, "warn")

	l.Debug().Msg("no debe salir")
	l.Info().Msg("tampoco")
	assert.Empty(t, buf.String())

	l.Warn().Msg("sí")
	assert.Contains(t, buf.String(), "sí")
}

func TestNivelDesconocido_UsaInfo(t *testing.T) {
	for _, lvl := range []string{"", "verboso"} {
		var buf bytes.Buffer
		l := logger.NewWithWriter(&buf, lvl)
		l.Debug().Msg("oculto")
		l.Info().Msg("visible")
		assert.NotContains(t, buf.String(), "oculto", lvl)
		assert.Contains(t, buf.String(), "visible", lvl)
	}
}
