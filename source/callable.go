package source

import (
	"context"

	"github.com/dagbuild/dagbuild/params"
)

// Func is the signature every Callable source wraps: a plain Go function
// taking the task's rendered params bag.
type Func func(ctx context.Context, p *params.Bag) error

// Callable is the Go analogue of PythonCallableSource: a reference to a
// callable in the host process. Go has no runtime equivalent of Python's
// inspect.getsource, so unlike PythonCallableSource (which extracts its own
// source text for the code-outdated check), Callable carries an explicit
// doc string and a caller-supplied fingerprint standing in for "source
// code" in the CodeDiffer comparison — see codediff.Differ and the open
// question recorded in DESIGN.md.
type Callable struct {
	fn          Func
	fingerprint string
	doc         string
	location    string
}

// CallableOption configures a Callable at construction.
type CallableOption func(*Callable)

// WithDoc sets the callable's documentation string.
func WithDoc(doc string) CallableOption {
	return func(c *Callable) { c.doc = doc }
}

// WithFingerprint sets the string used in place of extracted source code
// for code-outdated comparisons — typically a version tag or a hash the
// caller maintains alongside the function.
func WithFingerprint(fp string) CallableOption {
	return func(c *Callable) { c.fingerprint = fp }
}

// NewCallable wraps fn. loc is typically the call site (file:line) recorded
// by the caller.
func NewCallable(fn Func, loc string, opts ...CallableOption) *Callable {
	c := &Callable{fn: fn, location: loc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Callable) NeedsRender() bool { return false }
func (c *Callable) Raw() string       { return c.fingerprint }
func (c *Callable) Rendered() (string, error) {
	return c.fingerprint, nil
}
func (c *Callable) Language() Language { return LangGo }
func (c *Callable) Doc() string        { return c.doc }
func (c *Callable) DocShort() string   { return firstLine(c.doc) }
func (c *Callable) Loc() string        { return c.location }

// Invoke calls the wrapped function.
func (c *Callable) Invoke(ctx context.Context, p *params.Bag) error {
	return c.fn(ctx, p)
}
