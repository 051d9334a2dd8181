package kvstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/lifeos/internal/dbx"
	"github.com/dmitrijs2005/lifeos/internal/kvstore/migrations"
)

// SQLiteDevice stores keys in a single kv(key, value) table. Both *sql.DB
// and a transaction handle satisfy dbx.DBTX, so the same code serves direct
// calls and batched ones.
type SQLiteDevice struct {
	db *sql.DB // nil when the device is a transactional view
	q  dbx.DBTX
}

// NewSQLiteDevice wraps an already-opened database. The schema must be in
// place; use Open to open and migrate in one step.
func NewSQLiteDevice(db *sql.DB) *SQLiteDevice {
	return &SQLiteDevice{db: db, q: db}
}

// Open opens (creating if necessary) the SQLite database at dsn and applies
// pending schema migrations.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %q: %w", dsn, err)
	}
	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (d *SQLiteDevice) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := d.q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "get", Key: key, Err: err}
	}
	return value, nil
}

func (d *SQLiteDevice) Set(ctx context.Context, key string, value []byte) error {
	_, err := d.q.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (d *SQLiteDevice) Delete(ctx context.Context, key string) error {
	_, err := d.q.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return &StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (d *SQLiteDevice) Keys(ctx context.Context) ([]string, error) {
	rows, err := d.q.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, &StorageError{Op: "keys", Err: err}
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, &StorageError{Op: "keys", Err: err}
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "keys", Err: err}
	}
	return keys, nil
}

// Batch runs fn inside a single transaction. Nested batches reuse the
// enclosing transaction.
func (d *SQLiteDevice) Batch(ctx context.Context, fn func(d Device) error) error {
	if d.db == nil {
		return fn(d)
	}
	return dbx.WithTx(ctx, d.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(&SQLiteDevice{q: tx})
	})
}
