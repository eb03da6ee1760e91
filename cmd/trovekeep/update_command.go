package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Refresh the catalog snapshot and merge it into the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLock(func() error {
				return runUpdate(ctx, cmd, force)
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Invalidate cached feed documents before assembling")
	return cmd
}

func runUpdate(ctx *commandContext, cmd *cobra.Command, force bool) error {
	assembler, _, err := ctx.assembler()
	if err != nil {
		return err
	}
	store, err := ctx.snapshotStore()
	if err != nil {
		return err
	}
	lib, err := ctx.gameLibrary()
	if err != nil {
		return err
	}

	if force {
		if err := assembler.Invalidate(cmd.Context()); err != nil {
			return fmt.Errorf("invalidate cached feed: %w", err)
		}
	}

	snapshot, err := assembler.Assemble(cmd.Context())
	if err != nil {
		return fmt.Errorf("assemble catalog: %w", err)
	}
	if err := store.Save(snapshot); err != nil {
		return err
	}
	backupPath, err := store.Backup(snapshot)
	if err != nil {
		return err
	}

	if err := lib.AddFeed(snapshot); err != nil {
		return fmt.Errorf("merge catalog into library: %w", err)
	}
	lib.UpdateDownloadStatus()
	if err := lib.Save(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Catalog updated: %d products (backup %s)\n", len(snapshot.Products), backupPath)
	fmt.Fprintf(out, "Library: %d records, %d downloaded\n", len(lib.Records()), len(lib.Downloaded()))
	return nil
}
