package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newCleanCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete every task's product and its stored metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.dag.Render(ctx, nil); err != nil {
				return err
			}
			var errs []error
			for _, t := range a.dag.Tasks() {
				if err := t.Product().Delete(ctx, force); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "drop relations without an IF EXISTS guard")
	return cmd
}
