package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExplainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "explain",
		Short: "Print the task dependency tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(a.dag.Explain(nil))
			return nil
		},
	}
}
