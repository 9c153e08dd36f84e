package clients

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dagbuild/dagbuild/client"
	"github.com/dagbuild/dagbuild/identifier"
)

// commentsTable is the catalog dagbuild maintains to emulate COMMENT ON
// TABLE/VIEW, which sqlite has no equivalent for. Any other dialect's
// client should prefer its native COMMENT statement instead of this
// table (spec section 6's relational metadata format only mandates the
// base64-JSON payload, not the storage mechanism).
const commentsTable = "__dagbuild_comments"

// SQLite implements client.SQL and client.Commenter over
// database/sql + mattn/go-sqlite3. A transaction is opened lazily on the
// first Execute/FetchOne call and committed or rolled back explicitly by
// the caller (task.SQLScript per spec section 5: "transactions ... begin
// implicitly before run() and commit on success; on error ... roll back").
type SQLite struct {
	db *sql.DB
	tx *sql.Tx
}

// OpenSQLite opens (creating if absent) a sqlite database at path and
// ensures the comment-emulation catalog table exists.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	s := &SQLite{db: db}
	if _, err := db.Exec(fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			schema TEXT NOT NULL,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			comment TEXT NOT NULL,
			PRIMARY KEY (schema, name, kind)
		)`, commentsTable)); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) Dialect() string { return "sqlite" }

func (s *SQLite) begin(ctx context.Context) (*sql.Tx, error) {
	if s.tx != nil {
		return s.tx, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	s.tx = tx
	return tx, nil
}

// Execute runs query within the client's current transaction, opening one
// if none is in progress.
func (s *SQLite) Execute(ctx context.Context, query string) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query)
	return err
}

// FetchOne runs query and returns its first row, or a nil Row if it
// produced none.
func (s *SQLite) FetchOne(ctx context.Context, query string, args ...any) (client.Row, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if !rows.Next() {
		return nil, rows.Err()
	}

	dest := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return client.Row(dest), nil
}

// Commit commits the client's current transaction, if any.
func (s *SQLite) Commit(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	return err
}

// Rollback rolls back the client's current transaction, if any.
func (s *SQLite) Rollback(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback()
	s.tx = nil
	return err
}

// SetComment upserts a row in the comments catalog, standing in for a real
// COMMENT ON statement (spec section 6).
func (s *SQLite) SetComment(ctx context.Context, schema, name string, kind identifier.RelationKind, comment string) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (schema, name, kind, comment) VALUES (?, ?, ?, ?)
		 ON CONFLICT(schema, name, kind) DO UPDATE SET comment = excluded.comment`,
		commentsTable), schema, name, string(kind), comment)
	return err
}

// GetComment looks up a relation's comment, using the client's own
// dedicated connection so it can be called outside any open transaction
// (e.g. during outdatedness checks before a task's transaction begins).
func (s *SQLite) GetComment(ctx context.Context, schema, name string, kind identifier.RelationKind) (string, bool, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT comment FROM %s WHERE schema = ? AND name = ? AND kind = ?`, commentsTable),
		schema, name, string(kind))

	var comment string
	if err := row.Scan(&comment); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return comment, true, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
