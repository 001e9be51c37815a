package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusWireWords(t *testing.T) {
	assert.Equal(t, "Tersedia", StatusAvailable.String())
	assert.Equal(t, "Habis", StatusOutOfStock.String())
	assert.Equal(t, "Unknown", StatusUnknown.String())

	assert.Equal(t, StatusAvailable, ParseStatus("Tersedia"))
	assert.Equal(t, StatusOutOfStock, ParseStatus("Habis"))
	assert.Equal(t, StatusUnknown, ParseStatus("Unknown"))
	assert.Equal(t, StatusUnknown, ParseStatus("whatever"))
}

func TestStatusJSONRoundTrip(t *testing.T) {
	for _, s := range []Status{StatusUnknown, StatusAvailable, StatusOutOfStock} {
		data, err := json.Marshal(s)
		require.NoError(t, err)

		var back Status
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, s, back)
	}
}

func TestNewTrackedItem(t *testing.T) {
	item := NewTrackedItem(500)
	assert.Equal(t, "500", item.ID)
	assert.Equal(t, "500 Robux", item.Label)
	assert.Equal(t, 500, item.Amount)
}

func TestSingleItem(t *testing.T) {
	item := SingleItem()
	assert.Equal(t, SingleItemID, item.ID)
	assert.Equal(t, 100, item.Amount)
}

func TestSnapshotRoundTripMulti(t *testing.T) {
	snap := Snapshot{
		"100": {Price: 2000, Status: StatusAvailable},
		"500": {Status: StatusOutOfStock, Qualifier: "restock in 01:00:00"},
	}

	data, err := EncodeSnapshot(snap, false)
	require.NoError(t, err)

	back, err := DecodeSnapshot(data, false)
	require.NoError(t, err)
	assert.Equal(t, snap, back)
}

func TestSnapshotRoundTripSingle(t *testing.T) {
	snap := Snapshot{
		SingleItemID: {Price: 13000, Status: StatusAvailable, StockCount: 12500, Qualifier: "12.500 available"},
	}

	data, err := EncodeSnapshot(snap, true)
	require.NoError(t, err)
	// single mode persists the record as a flat object, no id wrapper
	assert.NotContains(t, string(data), SingleItemID)

	back, err := DecodeSnapshot(data, true)
	require.NoError(t, err)
	assert.Equal(t, snap, back)
}

func TestEncodeSnapshotSingleWithoutRecordFails(t *testing.T) {
	_, err := EncodeSnapshot(Snapshot{"100": {Price: 2000}}, true)
	assert.Error(t, err)
}

func TestDecodeSnapshotToleratesMinimalRecords(t *testing.T) {
	// Records written before the optional fields existed still decode.
	snap, err := DecodeSnapshot([]byte(`{"price": 13000, "status": "Tersedia"}`), true)
	require.NoError(t, err)
	rec := snap[SingleItemID]
	assert.Equal(t, 13000, rec.Price)
	assert.Equal(t, StatusAvailable, rec.Status)
	assert.Zero(t, rec.StockCount)
	assert.Empty(t, rec.Qualifier)
}

func TestDecodeSnapshotGarbage(t *testing.T) {
	_, err := DecodeSnapshot([]byte("not json"), false)
	assert.Error(t, err)
	_, err = DecodeSnapshot([]byte("not json"), true)
	assert.Error(t, err)
}

func TestEventKindDisplayNames(t *testing.T) {
	assert.Equal(t, "Target Reached", TargetReached.String())
	assert.Equal(t, "Price Above Target", TargetExceeded.String())
	assert.Equal(t, "Restocked", Restocked.String())
	assert.Equal(t, "Out of Stock", OutOfStock.String())
	assert.Equal(t, "Low Stock", LowStockCrossed.String())
	assert.Equal(t, "Price Changed", PriceChanged.String())
	assert.Equal(t, "No Change", NoChange.String())
}

func TestGroupDigits(t *testing.T) {
	cases := map[int]string{
		0:        "0",
		7:        "7",
		999:      "999",
		1000:     "1.000",
		13000:    "13.000",
		123456:   "123.456",
		1234567:  "1.234.567",
		-13000:   "-13.000",
	}
	for n, want := range cases {
		assert.Equal(t, want, GroupDigits(n), "n=%d", n)
	}
}
