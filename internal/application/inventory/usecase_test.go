package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/inventory"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/infrastructure/memory"
)

const sku = "ART-2024-0001"

func newStock(t *testing.T) (*inventory.StockUseCase, *inventory.ProductUseCase) {
	t.Helper()
	store := memory.NewStore()
	products := inventory.NewProductUseCase(store.Repos().Products)
	_, err := products.Create(context.Background(), dto.CreateProductRequest{Code: sku, Name: "Tornillo", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	return inventory.NewStockUseCase(store), products
}

func TestRecordMovement_EntradaYSalida(t *testing.T) {
	uc, products := newStock(t)
	ctx := context.Background()

	in, err := uc.RecordMovement(ctx, dto.RecordMovementRequest{ProductCode: sku, Quantity: 10, Direction: "IN"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), in.QuantityBefore)
	assert.Equal(t, int64(10), in.QuantityAfter)
	assert.Regexp(t, `^MOV-\d{4}-0001$`, in.Code)

	out, err := uc.RecordMovement(ctx, dto.RecordMovementRequest{ProductCode: sku, Quantity: 4, Direction: "egreso", Reference: "remito 12"})
	require.NoError(t, err)
	assert.Equal(t, int64(-4), out.Quantity)
	assert.Equal(t, int64(10), out.QuantityBefore)
	assert.Equal(t, "OUT", out.Direction)
	assert.Greater(t, out.ID, in.ID)

	st, err := uc.GetStock(ctx, sku, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(6), st.Quantity)
	require.Len(t, st.Movements, 2)
	assert.Equal(t, out.ID, st.Movements[0].ID, "más recientes primero")

	p, err := products.GetByCode(ctx, sku)
	require.NoError(t, err)
	assert.Equal(t, int64(6), p.Stock, "el artículo refleja el stock")
}

func TestRecordMovement_SalidaSinStockNoPersiste(t *testing.T) {
	uc, _ := newStock(t)
	ctx := context.Background()
	_, err := uc.RecordMovement(ctx, dto.RecordMovementRequest{ProductCode: sku, Quantity: 5, Direction: "IN"})
	require.NoError(t, err)

	_, err = uc.RecordMovement(ctx, dto.RecordMovementRequest{ProductCode: sku, Quantity: 6, Direction: "OUT"})
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(5), stockErr.Available)
	assert.Equal(t, int64(6), stockErr.Requested)

	movs, err := uc.ListMovements(ctx, sku, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "el rechazo no deja movimientos")
}

func TestRecordMovement_Validaciones(t *testing.T) {
	uc, _ := newStock(t)
	ctx := context.Background()

	_, err := uc.RecordMovement(ctx, dto.RecordMovementRequest{ProductCode: sku, Quantity: 0, Direction: "IN"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.RecordMovement(ctx, dto.RecordMovementRequest{ProductCode: sku, Quantity: 1, Direction: "X"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.RecordMovement(ctx, dto.RecordMovementRequest{ProductCode: "NO-EXISTE", Quantity: 1, Direction: "IN"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.GetStock(ctx, "NO-EXISTE", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	st, err := uc.GetStock(ctx, sku, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.Quantity)
}

// Salidas concurrentes sobre el mismo artículo: nunca se vende más de lo que hay.
func TestRecordMovement_ConcurrenciaNoDejaStockNegativo(t *testing.T) {
	uc, _ := newStock(t)
	ctx := context.Background()
	_, err := uc.RecordMovement(ctx, dto.RecordMovementRequest{ProductCode: sku, Quantity: 20, Direction: "IN"})
	require.NoError(t, err)

	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, rejected := 0, 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RecordMovement(ctx, dto.RecordMovementRequest{ProductCode: sku, Quantity: 1, Direction: "OUT"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, ok)
	assert.Equal(t, workers-20, rejected)
	st, err := uc.GetStock(ctx, sku, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.Quantity)

	// La historia de movimientos reconstruye el stock: cada quantity_before encadena con el anterior.
	movs, err := uc.ListMovements(ctx, sku, 0)
	require.NoError(t, err)
	require.Len(t, movs, 21)
	for i := 0; i < len(movs)-1; i++ {
		newer, older := movs[i], movs[i+1]
		assert.Equal(t, newer.ID-1, older.ID, "ids sin huecos")
		assert.Equal(t, older.QuantityAfter, newer.QuantityBefore)
	}
}
