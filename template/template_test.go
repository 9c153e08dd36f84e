package template_test

import (
	"errors"
	"testing"

	"github.com/dagbuild/dagbuild/params"
	"github.com/dagbuild/dagbuild/template"
)

func TestLiteralRendersImmediately(t *testing.T) {
	tmpl := template.New("no placeholders here")
	if !tmpl.Literal() {
		t.Fatal("a template with no {{expr}} should be Literal")
	}
	v, ok := tmpl.Rendered()
	if !ok || v != "no placeholders here" {
		t.Fatalf("literal template should render at construction, got %q, %v", v, ok)
	}
}

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	tmpl := template.New("hello {{name}}, you are {{upstream.age}}")
	p := params.New(map[string]any{
		"name":     "orders",
		"upstream": map[string]any{"age": 3},
	})
	out, err := tmpl.Render(p, true)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "hello orders, you are 3" {
		t.Fatalf("unexpected render output: %q", out)
	}
}

func TestRenderStrictReportsAllMissingAtOnce(t *testing.T) {
	tmpl := template.New("{{a}} and {{b}} and {{c}}")
	p := params.New(map[string]any{"b": "present"})

	_, err := tmpl.Render(p, true)
	if err == nil {
		t.Fatal("expected RenderFailed")
	}
	var failed *template.RenderFailed
	if !errors.As(err, &failed) {
		t.Fatalf("expected *RenderFailed, got %T", err)
	}
	if len(failed.Missing) != 2 {
		t.Fatalf("expected both missing names reported, got %v", failed.Missing)
	}
}

func TestRenderLaxLeavesMissingVerbatim(t *testing.T) {
	tmpl := template.New("{{a}} stays")
	p := params.New(nil)
	out, err := tmpl.Render(p, false)
	if err != nil {
		t.Fatalf("lax Render should not error: %v", err)
	}
	if out != "{{a}} stays" {
		t.Fatalf("unresolved placeholder should be left verbatim, got %q", out)
	}
}

func TestRenderTwiceWithSameParamsIsIdempotent(t *testing.T) {
	tmpl := template.New("{{a}}")
	p := params.New(map[string]any{"a": "x"})
	if _, err := tmpl.Render(p, true); err != nil {
		t.Fatalf("first Render: %v", err)
	}
	out, err := tmpl.Render(params.New(map[string]any{"a": "x"}), true)
	if err != nil {
		t.Fatalf("second Render with identical digest should not error: %v", err)
	}
	if out != "x" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRenderTwiceWithDifferentParamsFails(t *testing.T) {
	tmpl := template.New("{{a}}")
	if _, err := tmpl.Render(params.New(map[string]any{"a": "x"}), true); err != nil {
		t.Fatalf("first Render: %v", err)
	}
	_, err := tmpl.Render(params.New(map[string]any{"a": "y"}), true)
	var already *template.ErrAlreadyRendered
	if !errors.As(err, &already) {
		t.Fatalf("expected ErrAlreadyRendered, got %v", err)
	}
}

func TestNamesReturnsDistinctInFirstSeenOrder(t *testing.T) {
	tmpl := template.New("{{b}} {{a}} {{b}} {{c}}")
	names := tmpl.Names()
	want := []string{"b", "a", "c"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}
}
