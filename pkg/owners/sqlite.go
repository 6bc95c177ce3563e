package owners

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	perrors "github.com/123Haben/parking-place/internal/errors"
)

const schema = `CREATE TABLE IF NOT EXISTS owners (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL
)`

// SQLiteStore keeps owners in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at dsn, ensures the
// schema and seeds an empty table.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, perrors.New(perrors.CodeStoreFailure).
			WithDetail("sqlite dsn is required").
			WithSuggestion("Set owners.dsn or PARKDASH_OWNERS_DSN")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, storeErr("open sqlite db", err)
	}
	// Each connection to :memory: is its own database.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, storeErr("ping sqlite db", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return storeErr("create owners table", err)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM owners`).Scan(&n); err != nil {
		return storeErr("count owners", err)
	}
	if n > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin seed", err)
	}
	defer tx.Rollback()
	for _, o := range Seed {
		if _, err := tx.ExecContext(ctx, `INSERT INTO owners (id, name) VALUES (?, ?)`, o.ID, o.Name); err != nil {
			return storeErr("seed owners", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return storeErr("commit seed", err)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]Owner, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM owners ORDER BY id`)
	if err != nil {
		return nil, storeErr("list owners", err)
	}
	defer rows.Close()

	var out []Owner
	for rows.Next() {
		var o Owner
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, storeErr("scan owner", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list owners", err)
	}
	return out, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func storeErr(op string, err error) *perrors.ParkError {
	return perrors.New(perrors.CodeStoreFailure).WithDetail(op).Wrap(err)
}
