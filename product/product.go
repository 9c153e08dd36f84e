// Package product implements Product and MetaProduct: the persistent
// artifacts a Task owns, per spec sections 3 and 4.4–4.5.
package product

import (
	"context"

	"github.com/dagbuild/dagbuild/identifier"
)

// Kind identifies a product's backend, reused as the DAG client-registry
// key (spec section 4.8).
type Kind = identifier.Kind

// Metadata is the exactly-two-field record spec section 3 defines: when a
// product was last successfully produced, and the rendered source that
// produced it.
type Metadata struct {
	Timestamp        *float64 `json:"timestamp"`
	StoredSourceCode *string  `json:"stored_source_code"`
}

// Empty is the zero-value metadata returned when a product does not exist
// or its stored metadata cannot be parsed.
var Empty = Metadata{}

// TaskRef is the weak back-reference a Product holds to its owning Task,
// used only to ask "am I outdated" without creating an ownership cycle
// (spec section 9, "Cyclic object graph").
type TaskRef interface {
	Name() string
	UpstreamProducts() map[string]Product
}

// Check is a validation callable attached to a Product, run by the owning
// Task immediately after a successful Run (spec section 3's Data Model:
// "checks: list of callables", "tests: list of callables"). A Check that
// returns an error fails the task's Execute the same way a failing Run
// does.
type Check func(ctx context.Context) error

// Product is the contract every concrete product (File, Relation) and the
// MetaProduct facade implement.
type Product interface {
	Identifier() identifier.Identifier
	Exists(ctx context.Context) (bool, error)
	FetchMetadata(ctx context.Context) (Metadata, error)
	SaveMetadata(ctx context.Context, m Metadata) error
	Delete(ctx context.Context, force bool) error
	Kind() Kind

	// SetTask binds the product to its owning task. task.Base calls it when
	// the task first renders, not at task construction; task.NewGroup
	// calls it for the group's MetaProduct. User code never calls it.
	SetTask(t TaskRef)
	Task() TaskRef

	// InvalidateCache drops any cached metadata read this build cycle.
	// dagbuild calls it immediately after the owning task runs, per spec
	// section 5's caching note: a product's metadata probe may be cached
	// within one render/build cycle but must not survive the task that
	// produces it actually running.
	InvalidateCache()

	// AddCheck/AddTest register a validation callable against this
	// product, in registration order. Checks/Tests return what's
	// registered so far. task.Base.execute runs every Check, then every
	// Test, right after a successful Run and before SaveMetadata.
	AddCheck(c Check)
	AddTest(c Check)
	Checks() []Check
	Tests() []Check
}

// base holds the bookkeeping shared by every concrete product: the owning
// task back-reference, the per-build-cycle metadata cache, and registered
// checks/tests.
type base struct {
	task     TaskRef
	cache    *Metadata
	fetchErr error
	checks   []Check
	tests    []Check
}

func (b *base) SetTask(t TaskRef) { b.task = t }
func (b *base) Task() TaskRef     { return b.task }

func (b *base) InvalidateCache() {
	b.cache = nil
	b.fetchErr = nil
}

func (b *base) AddCheck(c Check) { b.checks = append(b.checks, c) }
func (b *base) AddTest(c Check)  { b.tests = append(b.tests, c) }
func (b *base) Checks() []Check  { return b.checks }
func (b *base) Tests() []Check   { return b.tests }

// cachedFetch memoizes fetch's result for the lifetime of the current
// build cycle (until InvalidateCache is called).
func (b *base) cachedFetch(ctx context.Context, fetch func(context.Context) (Metadata, error)) (Metadata, error) {
	if b.cache != nil {
		return *b.cache, b.fetchErr
	}
	m, err := fetch(ctx)
	if err == nil {
		b.cache = &m
	}
	b.fetchErr = err
	return m, err
}
