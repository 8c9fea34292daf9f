package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v4/stdlib"
	_ "modernc.org/sqlite"
)

const createTable = `CREATE TABLE IF NOT EXISTS kv_items (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

type SQL struct {
	db     *sql.DB
	driver string
}

// OpenSQL opens a database with the given driver ("pgx" or "sqlite") and makes
// sure the items table exists.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQL, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("kv/sql: can't open %s database, %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("kv/sql: unable to reach %s database, %w", driver, err)
	}
	s := NewSQL(db, driver)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func NewSQL(db *sql.DB, driver string) *SQL {
	return &SQL{
		db:     db,
		driver: driver,
	}
}

func (s *SQL) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("kv/sql: can't create items table, %w", err)
	}
	return nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	row := s.db.QueryRowContext(ctx, s.rebind("SELECT value FROM kv_items WHERE key = $1"), key)
	var v string
	err := row.Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return ``, false, nil
	}
	if err != nil {
		return ``, false, fmt.Errorf("kv/sql: row scan failed, %w", err)
	}
	return v, true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	q := `INSERT INTO kv_items(key, value) VALUES($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.ExecContext(ctx, s.rebind(q), key, value); err != nil {
		return fmt.Errorf("kv/sql: failed upsert `%s`, %w", key, err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if _, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM kv_items WHERE key = $1"), k); err != nil {
			return fmt.Errorf("kv/sql: failed delete `%s`, %w", k, err)
		}
	}
	return nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}

// rebind turns postgres placeholders into `?` for sqlite.
func (s *SQL) rebind(q string) string {
	if s.driver != "sqlite" {
		return q
	}
	for i := 9; i >= 1; i-- {
		q = strings.ReplaceAll(q, "$"+strconv.Itoa(i), "?")
	}
	return q
}
