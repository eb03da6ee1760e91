package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trovekeep/internal/config"
	"trovekeep/internal/feedstore"
)

func newDiffCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <backup-file>",
		Short: "Compare the current catalog against an older snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.snapshotStore()
			if err != nil {
				return err
			}
			current, err := store.Load()
			if err != nil {
				return err
			}
			olderPath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			older, err := store.LoadFile(olderPath)
			if err != nil {
				return err
			}

			changes := feedstore.Diff(current, older)
			out := cmd.OutOrStdout()
			if changes.Empty() {
				fmt.Fprintln(out, "No catalog changes.")
				return nil
			}

			for _, product := range changes.Added {
				fmt.Fprintf(out, "+ %s (%s)\n", product.HumanName, product.MachineName)
			}
			for _, product := range changes.Removed {
				fmt.Fprintf(out, "- %s (%s)\n", product.HumanName, product.MachineName)
			}
			fmt.Fprintf(out, "%d added, %d removed\n", len(changes.Added), len(changes.Removed))
			return nil
		},
	}
}
