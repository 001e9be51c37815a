package extract

import (
	"testing"

	"robux-monitor/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singlePage(stockBlock string) string {
	return `<!DOCTYPE html>
<html><body>
<main>
  <h1>Robux Murah</h1>
  <span class="text-xl">Rp13.000/100 Robux</span>
  ` + stockBlock + `
</main>
</body></html>`
}

func TestExtractSingleInStockWithCount(t *testing.T) {
	e := New([]types.TrackedItem{types.SingleItem()}, testLogger())

	snap, err := e.ExtractSingle(singlePage(`
		<div class="stock">
			<span>Stok Tersedia</span>
			<span class="font-bold">12.500</span>
		</div>`))
	require.NoError(t, err)
	rec := snap[types.SingleItemID]
	assert.Equal(t, 13000, rec.Price)
	assert.Equal(t, types.StatusAvailable, rec.Status)
	assert.Equal(t, 12500, rec.StockCount)
	assert.Equal(t, "12.500 available", rec.Qualifier)
}

func TestExtractSingleExplicitZeroCountIsOutOfStock(t *testing.T) {
	e := New([]types.TrackedItem{types.SingleItem()}, testLogger())

	snap, err := e.ExtractSingle(singlePage(`
		<div class="stock">
			<span>Stok Tersedia</span>
			<span class="font-bold">0</span>
		</div>`))
	require.NoError(t, err)
	rec := snap[types.SingleItemID]
	assert.Equal(t, types.StatusOutOfStock, rec.Status)
	assert.Equal(t, "0 available", rec.Qualifier)
	assert.Zero(t, rec.StockCount)
}

func TestExtractSingleMarkerWithoutCount(t *testing.T) {
	e := New([]types.TrackedItem{types.SingleItem()}, testLogger())

	snap, err := e.ExtractSingle(singlePage(`
		<div class="stock"><span>Stok Tersedia</span></div>`))
	require.NoError(t, err)
	rec := snap[types.SingleItemID]
	assert.Equal(t, types.StatusAvailable, rec.Status)
	assert.Zero(t, rec.StockCount)
	assert.Empty(t, rec.Qualifier)
}

func TestExtractSingleRestockCountdown(t *testing.T) {
	e := New([]types.TrackedItem{types.SingleItem()}, testLogger())

	snap, err := e.ExtractSingle(singlePage(`
		<span class="restock">
			<span>Stok selanjutnya dalam</span>
			<span class="font-bold">01:23:45</span>
		</span>`))
	require.NoError(t, err)
	rec := snap[types.SingleItemID]
	assert.Equal(t, 13000, rec.Price)
	assert.Equal(t, types.StatusOutOfStock, rec.Status)
	assert.Equal(t, "restock in 01:23:45", rec.Qualifier)
}

func TestExtractSingleRestockAnchorWithoutTimer(t *testing.T) {
	e := New([]types.TrackedItem{types.SingleItem()}, testLogger())

	snap, err := e.ExtractSingle(singlePage(`
		<div><span>Stok selanjutnya dalam</span></div>`))
	require.NoError(t, err)
	rec := snap[types.SingleItemID]
	assert.Equal(t, types.StatusOutOfStock, rec.Status)
	assert.Equal(t, "restock timer unknown", rec.Qualifier)
}

func TestExtractSingleNoMarkersIsBareOutOfStock(t *testing.T) {
	e := New([]types.TrackedItem{types.SingleItem()}, testLogger())

	snap, err := e.ExtractSingle(singlePage(``))
	require.NoError(t, err)
	rec := snap[types.SingleItemID]
	assert.Equal(t, types.StatusOutOfStock, rec.Status)
	assert.Empty(t, rec.Qualifier)
}

func TestExtractSinglePriceWithSpacing(t *testing.T) {
	e := New([]types.TrackedItem{types.SingleItem()}, testLogger())

	snap, err := e.ExtractSingle(`<html><body>
		<span>Rp 14.500 / 100 Robux</span>
		<div><span>Stok Tersedia</span></div>
	</body></html>`)
	require.NoError(t, err)
	assert.Equal(t, 14500, snap[types.SingleItemID].Price)
}

func TestExtractSingleMissingPriceIsErrNoData(t *testing.T) {
	e := New([]types.TrackedItem{types.SingleItem()}, testLogger())

	snap, err := e.ExtractSingle(`<html><body>
		<div><span>Stok Tersedia</span></div>
	</body></html>`)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Nil(t, snap)
}

func TestExtractSingleChallengePage(t *testing.T) {
	e := New([]types.TrackedItem{types.SingleItem()}, testLogger())

	_, err := e.ExtractSingle(`<html><body>Checking your browser</body></html>`)
	assert.ErrorIs(t, err, ErrBlocked)
}
