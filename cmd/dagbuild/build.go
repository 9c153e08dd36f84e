package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dagbuild/dagbuild"
)

func newBuildCmd(a *app) *cobra.Command {
	var errorMode string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the graph, then run every outdated task",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.dag.Render(ctx, nil); err != nil {
				return err
			}

			opts := []dagbuild.Option{dagbuild.WithParallel(a.cfg.MaxParallel)}
			if errorMode == "fail-fast" {
				opts = append(opts, dagbuild.WithErrorMode(dagbuild.FailFast))
			}

			stats, err := a.dag.Build(ctx, opts...)
			fmt.Printf("run %s: ran=%d skipped=%d failed=%d\n",
				stats.RunID, len(stats.Ran), len(stats.Skipped), len(stats.Failed))
			if err != nil {
				fmt.Println(a.dag.ExplainBuild(stats))
			}
			return err
		},
	}

	cmd.Flags().StringVar(&errorMode, "error-mode", "collect", `task failure handling: "collect" or "fail-fast"`)
	return cmd
}
