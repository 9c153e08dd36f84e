package source

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dagbuild/dagbuild/identifier"
	"github.com/dagbuild/dagbuild/template"
)

// SQLQuery is a templated SQL query (a SELECT, typically), run via a SQL
// Client. It performs no relation validation — that is SQLScript's job.
type SQLQuery struct {
	Command
}

// NewSQLQuery wraps a SQL query template.
func NewSQLQuery(query, doc, loc string) *SQLQuery {
	return &SQLQuery{Command: Command{tmpl: template.New(query), doc: doc, location: loc}}
}

func (q *SQLQuery) Language() Language { return LangSQL }

var createRelationRe = regexp.MustCompile(`(?is)create\s+(table|view)\s+(if\s+not\s+exists\s+)?["']?([\w.]+)["']?`)

// SQLScript is a templated SQL script that is expected to declare exactly
// one persistent relation (spec section 4.2).
type SQLScript struct {
	Command
}

// NewSQLScript wraps a SQL script body template.
func NewSQLScript(body, doc, loc string) *SQLScript {
	return &SQLScript{Command: Command{tmpl: template.New(body), doc: doc, location: loc}}
}

func (s *SQLScript) Language() Language { return LangSQL }

// ValidateAgainst compares the relation(s) the rendered script creates
// against the owning product's relation identifier, returning warnings on
// mismatch. It never errors: the script may legitimately use a CREATE
// syntax this lightweight parser does not recognize, per spec section 4.2
// and the design note in section 9.
func (s *SQLScript) ValidateAgainst(rel *identifier.Relation) []Warning {
	rendered, ok := s.tmpl.Rendered()
	if !ok {
		return nil
	}

	matches := createRelationRe.FindAllStringSubmatch(rendered, -1)
	if len(matches) == 0 {
		return []Warning{{Source: s.Loc(), Message: "SQL script does not declare a CREATE TABLE/VIEW the validator recognizes"}}
	}
	if len(matches) > 1 {
		return []Warning{{Source: s.Loc(), Message: fmt.Sprintf("SQL script declares %d relations; expected exactly one", len(matches))}}
	}

	kind := identifier.Table
	if strings.EqualFold(matches[0][1], "view") {
		kind = identifier.View
	}
	declared := matches[0][3]

	name, err := rel.Name()
	if err != nil {
		return nil
	}

	schemaQualified := rel.Schema + "." + name
	if !strings.EqualFold(declared, name) && !strings.EqualFold(declared, schemaQualified) {
		return []Warning{{
			Source:  s.Loc(),
			Message: fmt.Sprintf("SQL script creates relation %q, product identifier is %q", declared, schemaQualified),
		}}
	}
	if kind != rel.RelKind {
		return []Warning{{
			Source:  s.Loc(),
			Message: fmt.Sprintf("SQL script creates a %s, product identifier declares a %s", kind, rel.RelKind),
		}}
	}
	return nil
}
