package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheImagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cache-images",
		Short: "Warm the content cache with catalog imagery",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			assembler, cache, err := ctx.assembler()
			if err != nil {
				return err
			}
			store, err := ctx.snapshotStore()
			if err != nil {
				return err
			}

			snapshot, err := store.Load()
			if err != nil {
				return err
			}

			warmed, failed := assembler.WarmImages(cmd.Context(), snapshot)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d image(s) cached, %d failed\n", warmed, failed)

			if cfg.Library.MetadataImages {
				lib, err := ctx.gameLibrary()
				if err != nil {
					return err
				}
				exported, exportFailed, err := lib.CacheMetadata(cmd.Context(), cache)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d metadata image(s) exported, %d failed\n", exported, exportFailed)
			}
			return nil
		},
	}
}
