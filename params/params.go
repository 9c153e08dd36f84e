// Package params implements the observed parameter bag used while rendering
// a Task: user-declared params plus the "product" and "upstream" names
// spec section 6 reserves, wrapped in a scope that tracks which keys were
// actually consumed so an unused declaration can be warned about at close,
// per spec section 4.6 and the params-consumption-warning property in
// section 8.
package params

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Bag is a read-observed view over a nested map of parameter values.
type Bag struct {
	mu       sync.Mutex
	values   map[string]any
	consumed map[string]bool
}

// New wraps values in a Bag. values is typically built by the caller from
// user params plus the reserved "product" and "upstream" keys.
func New(values map[string]any) *Bag {
	if values == nil {
		values = map[string]any{}
	}
	return &Bag{
		values:   values,
		consumed: make(map[string]bool),
	}
}

// Get resolves a dotted path (e.g. "upstream.ta" or "upstream.ta.field")
// against the bag, marking the path's top-level key as consumed.
func (b *Bag) Get(path string) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	parts := strings.Split(path, ".")
	var cur any = b.values
	consumedPath := ""
	for i, part := range parts {
		if consumedPath == "" {
			consumedPath = part
		} else {
			consumedPath = consumedPath + "." + part
		}
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := m[part]
		if !ok {
			return nil, false
		}
		if i == 0 {
			b.consumed[part] = true
		}
		cur = v
	}
	return cur, true
}

// Raw returns the underlying top-level value map without marking anything
// consumed; used by dagbuild when assembling a child bag (e.g. the
// "upstream" sub-bag for a MetaProduct component).
func (b *Bag) Raw() map[string]any {
	return b.values
}

// Close returns the top-level keys that were declared but never consumed
// by a Get call, sorted for deterministic warning output.
func (b *Bag) Close() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var unused []string
	for k := range b.values {
		if !b.consumed[k] {
			unused = append(unused, k)
		}
	}
	sort.Strings(unused)
	return unused
}

// Digest returns a stable, order-independent fingerprint of the bag's
// top-level contents, used by template.Template to detect a second render
// with different params.
func (b *Bag) Digest() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%v;", k, b.values[k])
	}
	return sb.String()
}
