// Package client declares the external-system contracts spec section 6
// names: a handle to a filesystem, a SQL database, or a shell. Concrete
// backends live in package clients; dagbuild's core only depends on these
// interfaces, per spec section 9's "no process-wide mutable state" note —
// every Client is passed explicitly to the Task constructor that uses it.
package client

import (
	"context"

	"github.com/dagbuild/dagbuild/identifier"
)

// FS is the filesystem Client contract backing product.File.
type FS interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
}

// Row is a single result row from SQL.FetchOne.
type Row []any

// SQL is the relational-database Client contract backing product.Relation
// and task.SQLScript.
type SQL interface {
	Execute(ctx context.Context, query string) error
	FetchOne(ctx context.Context, query string, args ...any) (Row, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Dialect() string
}

// Commenter is implemented by SQL clients that can store a product's
// metadata as the relation's comment (or an equivalent per-dialect
// mechanism), per spec section 6's relational metadata format.
type Commenter interface {
	SetComment(ctx context.Context, schema, name string, kind identifier.RelationKind, comment string) error
	GetComment(ctx context.Context, schema, name string, kind identifier.RelationKind) (comment string, ok bool, err error)
}

// Result is the outcome of a Shell.Run call.
type Result struct {
	Stdout string
	Stderr string
	Status int
}

// Shell is the subprocess Client contract backing task.Bash.
type Shell interface {
	Run(ctx context.Context, command string, cwd string, env []string) (Result, error)
}
