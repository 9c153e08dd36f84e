package source_test

import (
	"context"
	"testing"

	"github.com/dagbuild/dagbuild/identifier"
	"github.com/dagbuild/dagbuild/params"
	"github.com/dagbuild/dagbuild/source"
)

func TestCommandRenderAndRendered(t *testing.T) {
	cmd := source.NewCommand("echo {{name}}", "doc\nmore", "loc")
	if !cmd.NeedsRender() {
		t.Fatal("Command should NeedsRender")
	}
	if _, err := cmd.Rendered(); err == nil {
		t.Fatal("Rendered before Render should error")
	}

	out, err := cmd.Render(params.New(map[string]any{"name": "orders"}), true)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "echo orders" {
		t.Fatalf("unexpected render: %q", out)
	}
	if got, _ := cmd.Rendered(); got != out {
		t.Fatalf("Rendered() = %q, want %q", got, out)
	}
	if cmd.DocShort() != "doc" {
		t.Fatalf("DocShort() = %q, want %q", cmd.DocShort(), "doc")
	}
	if cmd.Language() != source.LangShell {
		t.Fatalf("Command.Language() = %v, want LangShell", cmd.Language())
	}
}

func TestGenericNeverNeedsRender(t *testing.T) {
	g := source.NewGeneric("literal text", "", "loc")
	if g.NeedsRender() {
		t.Fatal("Generic should never NeedsRender")
	}
	out, err := g.Rendered()
	if err != nil || out != "literal text" {
		t.Fatalf("Generic.Rendered() = %q, %v", out, err)
	}
}

func TestCallableUsesFingerprintAsSourceText(t *testing.T) {
	called := false
	c := source.NewCallable(func(ctx context.Context, p *params.Bag) error {
		called = true
		return nil
	}, "file.go:42", source.WithDoc("does a thing"), source.WithFingerprint("v1"))

	if c.NeedsRender() {
		t.Fatal("Callable should never NeedsRender")
	}
	if raw := c.Raw(); raw != "v1" {
		t.Fatalf("Raw() = %q, want fingerprint", raw)
	}
	if err := c.Invoke(context.Background(), params.New(nil)); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !called {
		t.Fatal("Invoke should call the wrapped function")
	}
}

func TestSQLScriptValidateAgainstMatchingRelation(t *testing.T) {
	script := source.NewSQLScript("CREATE TABLE orders (id INTEGER)", "", "loc")
	rel := identifier.NewRelation("main", "orders", identifier.Table)
	if _, err := rel.Render(params.New(nil)); err != nil {
		t.Fatalf("rel.Render: %v", err)
	}
	if _, err := script.Render(params.New(nil), true); err != nil {
		t.Fatalf("script.Render: %v", err)
	}

	if warns := script.ValidateAgainst(rel); len(warns) != 0 {
		t.Fatalf("expected no warnings for a matching relation, got %v", warns)
	}
}

func TestSQLScriptValidateAgainstMismatchedName(t *testing.T) {
	script := source.NewSQLScript("CREATE TABLE customers (id INTEGER)", "", "loc")
	rel := identifier.NewRelation("main", "orders", identifier.Table)
	if _, err := rel.Render(params.New(nil)); err != nil {
		t.Fatalf("rel.Render: %v", err)
	}
	if _, err := script.Render(params.New(nil), true); err != nil {
		t.Fatalf("script.Render: %v", err)
	}

	warns := script.ValidateAgainst(rel)
	if len(warns) == 0 {
		t.Fatal("expected a warning for a name mismatch")
	}
}

func TestSQLScriptValidateAgainstNoCreateStatement(t *testing.T) {
	script := source.NewSQLScript("INSERT INTO orders VALUES (1)", "", "loc")
	rel := identifier.NewRelation("main", "orders", identifier.Table)
	if _, err := rel.Render(params.New(nil)); err != nil {
		t.Fatalf("rel.Render: %v", err)
	}
	if _, err := script.Render(params.New(nil), true); err != nil {
		t.Fatalf("script.Render: %v", err)
	}

	warns := script.ValidateAgainst(rel)
	if len(warns) == 0 {
		t.Fatal("expected a warning when no CREATE TABLE/VIEW is recognized")
	}
}
