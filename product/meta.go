package product

import (
	"context"
	"errors"

	"github.com/dagbuild/dagbuild/identifier"
)

// ErrEmptyMeta is the value NewMeta panics with when given zero members; a
// MetaProduct with no underlying products cannot answer Exists/Timestamp
// meaningfully.
var ErrEmptyMeta = errors.New("product: meta product requires at least one member")

// Meta is a Product-shaped facade over several Products: a task that
// writes more than one output (e.g. a SQLScript that populates two tables)
// exposes them as one Product so the rest of dagbuild never has to
// special-case "a task with many outputs". Meta applies pointwise
// semantics: it exists only if every member exists, its timestamp is the
// max across members (or null if any is null), its stored source code is
// the shared value if members agree (else null, with a warning), and
// Delete/SaveMetadata fan out to every member.
type Meta struct {
	base
	members  []Product
	warnings []string
}

// NewMeta wraps members as a single Product. It panics if members is
// empty, since a MetaProduct with nothing to point at is a construction
// bug, not a runtime condition callers should need to check for.
func NewMeta(members ...Product) *Meta {
	if len(members) == 0 {
		panic(ErrEmptyMeta)
	}
	return &Meta{members: members}
}

// Members returns the wrapped products in construction order.
func (m *Meta) Members() []Product { return m.members }

// Identifier returns the first member's identifier; MetaProduct has no
// identifier of its own, so it stands in for whichever identifier callers
// use for display purposes (graph explain, logging).
func (m *Meta) Identifier() identifier.Identifier { return m.members[0].Identifier() }

func (m *Meta) Kind() Kind { return identifier.KindGeneric }

// Exists reports true only if every member exists.
func (m *Meta) Exists(ctx context.Context) (bool, error) {
	for _, p := range m.members {
		ok, err := p.Exists(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// FetchMetadata lifts the pointwise rule of spec section 4.5: timestamp is
// the max across members, or null if any member's is null; stored source
// code is the shared value if every member agrees, otherwise Meta warns
// (see Warnings) and reports null.
func (m *Meta) FetchMetadata(ctx context.Context) (Metadata, error) {
	return m.cachedFetch(ctx, m.fetch)
}

func (m *Meta) fetch(ctx context.Context) (Metadata, error) {
	var maxTS *float64
	var code *string
	codeAgrees := true
	first := true

	for _, p := range m.members {
		md, err := p.FetchMetadata(ctx)
		if err != nil {
			return Empty, err
		}
		if md.Timestamp == nil {
			maxTS = nil
		} else if maxTS != nil || first {
			if maxTS == nil {
				v := *md.Timestamp
				maxTS = &v
			} else if *md.Timestamp > *maxTS {
				v := *md.Timestamp
				maxTS = &v
			}
		}

		if first {
			code = md.StoredSourceCode
		} else if !equalStringPtr(code, md.StoredSourceCode) {
			codeAgrees = false
		}
		first = false
	}

	if !codeAgrees {
		m.warnings = append(m.warnings, "product: meta members disagree on stored_source_code")
		code = nil
	}
	return Metadata{Timestamp: maxTS, StoredSourceCode: code}, nil
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Warnings returns and clears any warnings accumulated since the last call
// (e.g. disagreeing stored_source_code across members).
func (m *Meta) Warnings() []string {
	w := m.warnings
	m.warnings = nil
	return w
}

// SaveMetadata fans the same metadata record out to every member.
func (m *Meta) SaveMetadata(ctx context.Context, md Metadata) error {
	for _, p := range m.members {
		if err := p.SaveMetadata(ctx, md); err != nil {
			return err
		}
	}
	m.cache = &md
	m.fetchErr = nil
	return nil
}

// Delete removes every member. It does not stop at the first failure,
// collecting and joining errors so a partial delete still removes what it
// can (spec section 4.4's "best-effort" note applies here too).
func (m *Meta) Delete(ctx context.Context, force bool) error {
	var errs []error
	for _, p := range m.members {
		if err := p.Delete(ctx, force); err != nil {
			errs = append(errs, err)
		}
	}
	m.InvalidateCache()
	return errors.Join(errs...)
}

// InvalidateCache clears both the facade's own cache and every member's.
func (m *Meta) InvalidateCache() {
	m.base.InvalidateCache()
	for _, p := range m.members {
		p.InvalidateCache()
	}
}
