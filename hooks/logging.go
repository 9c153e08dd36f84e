package hooks

import (
	"log/slog"

	"github.com/dagbuild/dagbuild/source"
)

// Logging logs every task lifecycle event through slog, the teacher's
// pervasive logging library (and the ambient logger this whole codebase
// standardizes on, per extensions/graph_debug.go's slog.Handler-based
// design), generalized from LoggingExtension's fmt.Printf calls
// (extensions/logging.go) to structured log/slog records.
type Logging struct {
	Base
	logger *slog.Logger
}

// NewLogging wraps logger. A nil logger uses slog.Default().
func NewLogging(logger *slog.Logger) *Logging {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logging{logger: logger}
}

func (l *Logging) OnTaskStart(name string) {
	l.logger.Info("task starting", "task", name)
}

func (l *Logging) OnTaskSkip(name string) {
	l.logger.Info("task skipped, not outdated", "task", name)
}

func (l *Logging) OnTaskSuccess(name string) {
	l.logger.Info("task completed", "task", name)
}

func (l *Logging) OnTaskFailure(name string, err error) {
	l.logger.Error("task failed", "task", name, "error", err)
}

func (l *Logging) OnWarning(task string, w source.Warning) {
	l.logger.Warn("render warning", "task", task, "message", w.Message)
}
