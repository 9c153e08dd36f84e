// Package hooks implements build/render instrumentation, the Go
// counterpart of the teacher's Extension/Wrap middleware (extension.go,
// extensions/logging.go, extensions/graph_debug.go): a DAG calls every
// registered Hook around each task's execution instead of wrapping a
// generic resolve operation, since dagbuild has exactly two operations
// (render a task, run a task) rather than an open-ended executor graph.
package hooks

import "github.com/dagbuild/dagbuild/source"

// Hook observes a DAG's Render and Build lifecycle.
type Hook interface {
	OnTaskStart(name string)
	OnTaskSkip(name string)
	OnTaskSuccess(name string)
	OnTaskFailure(name string, err error)
	OnWarning(task string, w source.Warning)
}

// Base provides no-op implementations of every Hook method; concrete
// hooks embed it and override only what they need, mirroring the
// teacher's BaseExtension.
type Base struct{}

func (Base) OnTaskStart(name string)                  {}
func (Base) OnTaskSkip(name string)                   {}
func (Base) OnTaskSuccess(name string)                {}
func (Base) OnTaskFailure(name string, err error)     {}
func (Base) OnWarning(task string, w source.Warning)  {}

// Multi fans every call out to a set of hooks, in order.
type Multi []Hook

func (m Multi) OnTaskStart(name string) {
	for _, h := range m {
		h.OnTaskStart(name)
	}
}

func (m Multi) OnTaskSkip(name string) {
	for _, h := range m {
		h.OnTaskSkip(name)
	}
}

func (m Multi) OnTaskSuccess(name string) {
	for _, h := range m {
		h.OnTaskSuccess(name)
	}
}

func (m Multi) OnTaskFailure(name string, err error) {
	for _, h := range m {
		h.OnTaskFailure(name, err)
	}
}

func (m Multi) OnWarning(task string, w source.Warning) {
	for _, h := range m {
		h.OnWarning(task, w)
	}
}
