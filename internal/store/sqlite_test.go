package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteReadMissingKey(t *testing.T) {
	s := newTestSQLiteStore(t)

	_, err := s.Read(context.Background(), "database.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteWriteThenRead(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	payload := []byte(`{"price": 13000, "status": "Tersedia"}`)
	require.NoError(t, s.Write(ctx, "database.json", payload))

	got, err := s.Read(ctx, "database.json")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestSQLiteWriteOverwrites(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "database.json", []byte("first")))
	require.NoError(t, s.Write(ctx, "database.json", []byte("second")))

	got, err := s.Read(ctx, "database.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestSQLiteKeysAreIndependent(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "a.json", []byte("aaa")))
	require.NoError(t, s.Write(ctx, "b.json", []byte("bbb")))

	got, err := s.Read(ctx, "a.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("aaa"), got)
}
