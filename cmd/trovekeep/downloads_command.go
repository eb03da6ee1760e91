package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDownloadsCommand(ctx *commandContext) *cobra.Command {
	downloadsCmd := &cobra.Command{
		Use:   "downloads",
		Short: "Reconcile downloaded installer files",
	}

	downloadsCmd.AddCommand(newDownloadsStrayCommand(ctx))
	downloadsCmd.AddCommand(newDownloadsMoveCommand(ctx))

	return downloadsCmd
}

func newDownloadsStrayCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stray",
		Short: "List downloads waiting to be moved into the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := ctx.gameLibrary()
			if err != nil {
				return err
			}

			stray := lib.StrayDownloads()
			out := cmd.OutOrStdout()
			if len(stray) == 0 {
				fmt.Fprintln(out, "No stray downloads.")
				return nil
			}
			for _, filename := range stray {
				fmt.Fprintln(out, filename)
			}
			fmt.Fprintf(out, "%d stray download(s)\n", len(stray))
			return nil
		},
	}
}

func newDownloadsMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move",
		Short: "Move finished downloads into the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLock(func() error {
				lib, err := ctx.gameLibrary()
				if err != nil {
					return err
				}

				moved, unmoved := lib.MoveDownloads()
				lib.UpdateDownloadStatus()
				if err := lib.Save(); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, filename := range moved {
					fmt.Fprintf(out, "moved   %s\n", filename)
				}
				for _, filename := range unmoved {
					fmt.Fprintf(out, "skipped %s\n", filename)
				}
				fmt.Fprintf(out, "%d moved, %d skipped\n", len(moved), len(unmoved))
				return nil
			})
		},
	}
}
