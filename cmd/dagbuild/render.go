package main

import "github.com/spf13/cobra"

func newRenderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Resolve every task's templates without running anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dag.Render(cmd.Context(), nil)
		},
	}
}
