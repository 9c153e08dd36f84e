package product

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/dagbuild/dagbuild/client"
	"github.com/dagbuild/dagbuild/identifier"
)

// Relation is a relational-database-backed Product. Its metadata is
// stored base64-JSON-encoded in the relation's comment (spec section 6),
// via whatever Commenter the owning client.SQL backend provides — a real
// Postgres client issues COMMENT ON TABLE ... IS '...'; the sqlite client
// in package clients emulates the same contract with an internal catalog
// table, since SQLite has no COMMENT ON. Relation itself is dialect
// agnostic: it only calls through client.Commenter.
type Relation struct {
	base
	ident     *identifier.Relation
	commenter client.Commenter
}

// NewRelation creates a Relation product backed by commenter.
func NewRelation(ident *identifier.Relation, commenter client.Commenter) *Relation {
	return &Relation{ident: ident, commenter: commenter}
}

func (r *Relation) Identifier() identifier.Identifier { return r.ident }
func (r *Relation) Kind() Kind                        { return identifier.KindRelation }

// Exists asks the Commenter for the relation's comment and reports true
// only when one is stored, so "has a comment" stands for "exists". It does
// not query the database catalog: a relation that exists without a stored
// comment reports false.
func (r *Relation) Exists(ctx context.Context) (bool, error) {
	name, err := r.ident.Name()
	if err != nil {
		return false, err
	}
	_, ok, err := r.commenter.GetComment(ctx, r.ident.Schema, name, r.ident.RelKind)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *Relation) FetchMetadata(ctx context.Context) (Metadata, error) {
	return r.cachedFetch(ctx, r.fetch)
}

func (r *Relation) fetch(ctx context.Context) (Metadata, error) {
	name, err := r.ident.Name()
	if err != nil {
		return Empty, err
	}
	comment, ok, err := r.commenter.GetComment(ctx, r.ident.Schema, name, r.ident.RelKind)
	if err != nil {
		return Empty, err
	}
	if !ok {
		return Empty, nil
	}

	raw, err := base64.StdEncoding.DecodeString(comment)
	if err != nil {
		return Empty, nil
	}
	var m Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return Empty, nil
	}
	return m, nil
}

func (r *Relation) SaveMetadata(ctx context.Context, m Metadata) error {
	name, err := r.ident.Name()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(raw)
	if err := r.commenter.SetComment(ctx, r.ident.Schema, name, r.ident.RelKind, encoded); err != nil {
		return err
	}
	r.cache = &m
	r.fetchErr = nil
	return nil
}

// Delete issues a DROP TABLE|VIEW [IF EXISTS] through the owning
// client.SQL, per spec section 4.4.
func (r *Relation) Delete(ctx context.Context, force bool) error {
	name, err := r.ident.Name()
	if err != nil {
		return err
	}
	sql, ok := r.commenter.(client.SQL)
	if !ok {
		return nil
	}

	ifExists := ""
	if !force {
		ifExists = "IF EXISTS "
	}
	kind := "TABLE"
	if r.ident.RelKind == identifier.View {
		kind = "VIEW"
	}
	stmt := "DROP " + kind + " " + ifExists + `"` + r.ident.Schema + `"."` + name + `"`
	if err := sql.Execute(ctx, stmt); err != nil {
		return err
	}
	r.InvalidateCache()
	return nil
}
