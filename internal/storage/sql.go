package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jdmshowroom/internal/dbx"
)

// Dialect selects placeholder syntax and migrations for a SQL backend.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func (d Dialect) bind(n int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (d Dialect) queries() sqlQueries {
	return sqlQueries{
		get: `SELECT value FROM local_storage WHERE key = ` + d.bind(1),
		set: `INSERT INTO local_storage (key, value) VALUES (` + d.bind(1) + `, ` + d.bind(2) + `)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		remove: `DELETE FROM local_storage WHERE key = ` + d.bind(1),
	}
}

type sqlQueries struct {
	get, set, remove string
}

// sqlKV implements Store over any DBTX, so the same code serves both the
// plain connection pool and an open transaction.
type sqlKV struct {
	db dbx.DBTX
	q  sqlQueries
}

func (r *sqlKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, r.q.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get local_storage[%s]: %w", key, err)
	}
	return value, nil
}

func (r *sqlKV) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := r.db.ExecContext(ctx, r.q.set, key, value); err != nil {
		return fmt.Errorf("failed to set local_storage[%s]: %w", key, err)
	}
	return nil
}

func (r *sqlKV) Remove(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, r.q.remove, key); err != nil {
		return fmt.Errorf("failed to remove local_storage[%s]: %w", key, err)
	}
	return nil
}

// SQLStore keeps every key as a row of the local_storage table.
type SQLStore struct {
	sqlKV
	conn *sql.DB
}

// NewSQLStore wraps an open database. The local_storage table must exist;
// Open takes care of that by running migrations.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{
		sqlKV: sqlKV{db: db, q: dialect.queries()},
		conn:  db,
	}
}

// Update runs fn inside a database transaction.
func (s *SQLStore) Update(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return dbx.WithTx(ctx, s.conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &sqlKV{db: tx, q: s.q})
	})
}

func (s *SQLStore) Close() error {
	return s.conn.Close()
}
