package dagbuild

import "fmt"

// CycleDetected is returned by AddTask or Render when the DAG's edges form
// a cycle, violating the acyclic invariant in spec section 3.
type CycleDetected struct {
	Cycle []string
}

func (e *CycleDetected) Error() string {
	return fmt.Sprintf("dagbuild: cycle detected: %v", e.Cycle)
}

// DuplicateTask is returned by AddTask when a task name is already
// registered in the DAG.
type DuplicateTask struct {
	Name string
}

func (e *DuplicateTask) Error() string {
	return fmt.Sprintf("dagbuild: duplicate task name %q", e.Name)
}

// UnknownUpstream is returned by AddTask when a task declares an upstream
// name that is not (yet) present in the DAG.
type UnknownUpstream struct {
	Task     string
	Upstream string
}

func (e *UnknownUpstream) Error() string {
	return fmt.Sprintf("dagbuild: task %q references unknown upstream task %q", e.Task, e.Upstream)
}

// TaskRunError wraps a failure from a single task's Execute, preserving
// which task failed so BuildStats and Explain can report it.
type TaskRunError struct {
	Task  string
	Cause error
}

func (e *TaskRunError) Error() string {
	return fmt.Sprintf("dagbuild: task %q failed: %v", e.Task, e.Cause)
}

func (e *TaskRunError) Unwrap() error { return e.Cause }

// BuildErrors collects every TaskRunError from one Build call. Independent
// branches are allowed to fail without stopping each other (spec section
// 4.8's best-effort mode), so a Build can return several of these at once.
type BuildErrors struct {
	Errors []*TaskRunError
}

func (e *BuildErrors) Error() string {
	return fmt.Sprintf("dagbuild: %d task(s) failed", len(e.Errors))
}

func (e *BuildErrors) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, te := range e.Errors {
		out[i] = te
	}
	return out
}
