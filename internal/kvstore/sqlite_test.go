package kvstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var dbSeq atomic.Int64

// setupDB opens a fresh named in-memory database. Shared cache keeps every
// pooled connection on the same data; the unique name isolates tests.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:kvstore_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE kv (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestSQLiteDevice_Contract(t *testing.T) {
	runDeviceContract(t, func(t *testing.T) Device {
		return NewSQLiteDevice(setupDB(t))
	})
}

func TestSQLiteDevice_NestedBatchReusesTransaction(t *testing.T) {
	d := NewSQLiteDevice(setupDB(t))
	ctx := context.Background()

	err := d.Batch(ctx, func(outer Device) error {
		if err := outer.Set(ctx, "a", []byte("1")); err != nil {
			return err
		}
		return outer.Batch(ctx, func(inner Device) error {
			return inner.Set(ctx, "b", []byte("2"))
		})
	})
	require.NoError(t, err)

	v, err := d.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
	v, err = d.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)
}

func TestOpen_AppliesMigrations(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, t.TempDir()+"/lifeos.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	d := NewSQLiteDevice(db)
	require.NoError(t, d.Set(ctx, "k", []byte("v")))

	v, err := d.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}
