// Command dagbuild is a thin cobra CLI adapter over package dagbuild: it
// wires the example etlpipeline graph against engine config (client
// defaults, parallelism) and exposes render/build/explain/clean
// subcommands, grounded on kubeopencode's cmd/kubetask/main.go
// root-command-with-subcommands shape.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"

	"github.com/dagbuild/dagbuild"
	"github.com/dagbuild/dagbuild/clients"
	"github.com/dagbuild/dagbuild/examples/etlpipeline"
	"github.com/dagbuild/dagbuild/hooks"
	"github.com/dagbuild/dagbuild/identifier"
)

// app holds the state every subcommand shares, assembled once in the root
// command's PersistentPreRunE after flags and config are resolved.
type app struct {
	cfg    Config
	dag    *dagbuild.DAG
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dagbuild:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, sqlitePath string
	var parallel int
	a := &app{}

	root := &cobra.Command{
		Use:           "dagbuild",
		Short:         "Render and build dagbuild task graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("loading %s: %w", configPath, err)
			}
			if sqlitePath != "" {
				cfg.SQLitePath = sqlitePath
			}
			if parallel > 0 {
				cfg.MaxParallel = parallel
			}

			a.cfg = cfg
			a.logger = newLogger(cfg.LogLevel)

			d, err := buildDAG(cfg, a.logger)
			if err != nil {
				return fmt.Errorf("building pipeline: %w", err)
			}
			a.dag = d
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "dagbuild.toml", "path to the engine config file")
	root.PersistentFlags().StringVar(&sqlitePath, "sqlite", "", "override the sqlite database path")
	root.PersistentFlags().IntVar(&parallel, "parallel", 0, "override the max parallel build workers")

	root.AddCommand(newRenderCmd(a), newBuildCmd(a), newExplainCmd(a), newCleanCmd(a))
	return root
}

// newLogger builds the process-wide slog.Logger over a zap core, the
// ambient logging stack's CLI half: library code (hooks.Logging) only ever
// sees *slog.Logger, never zap directly.
func newLogger(level string) *slog.Logger {
	zapLevel := zap.NewAtomicLevel()
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	zCfg := zap.NewProductionConfig()
	zCfg.Level = zapLevel
	zl, err := zCfg.Build()
	if err != nil {
		return slog.Default()
	}
	return slog.New(zapslog.NewHandler(zl.Core()))
}

// buildDAG assembles the clients engine config names and hands them to
// etlpipeline.Build. Swapping in a different pipeline package is the
// expected way to reuse this binary for a different task graph.
func buildDAG(cfg Config, logger *slog.Logger) (*dagbuild.DAG, error) {
	sqlite, err := clients.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	fs := clients.NewLocalFS()
	shell := clients.NewLocalShell()

	d := dagbuild.New()
	d.SetClient(identifier.KindFile, fs)
	d.SetClient(identifier.KindRelation, sqlite)
	d.AddHook(hooks.NewLogging(logger))
	d.AddHook(hooks.NewGraphDebug(func() string { return d.Explain(nil) }, logger))

	err = etlpipeline.Build(d, etlpipeline.Deps{
		FS:      fs,
		Shell:   shell,
		SQL:     sqlite,
		WorkDir: cfg.WorkDir,
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}
