package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trovekeep/internal/feedstore"
	"trovekeep/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show directory, snapshot, and library state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			checks := []preflight.Result{
				preflight.CheckDirectoryAccess("state dir", cfg.Paths.StateDir),
				preflight.CheckDirectoryAccess("cache dir", cfg.Paths.CacheDir),
				preflight.CheckDirectoryAccess("library dir", cfg.Paths.LibraryDir),
				preflight.CheckDirectoryAccess("downloads dir", cfg.Paths.DownloadsDir),
			}
			for _, check := range checks {
				kind := statusOK
				message := ""
				if !check.Passed {
					kind = statusError
					message = check.Detail
				}
				fmt.Fprintln(out, renderStatusLine(check.Name, kind, message, colorize))
			}

			store, err := ctx.snapshotStore()
			if err != nil {
				return err
			}
			snapshot, err := store.Load()
			switch {
			case errors.Is(err, feedstore.ErrNoSnapshot):
				fmt.Fprintln(out, renderStatusLine("snapshot", statusWarn, "none saved yet", colorize))
			case err != nil:
				fmt.Fprintln(out, renderStatusLine("snapshot", statusError, err.Error(), colorize))
			default:
				kind := statusOK
				message := fmt.Sprintf("%d products, next addition %s",
					len(snapshot.Products), snapshot.ExpiresAt.Format(time.RFC3339))
				if snapshot.Expired(time.Now()) {
					kind = statusWarn
					message = fmt.Sprintf("%d products, stale since %s",
						len(snapshot.Products), snapshot.ExpiresAt.Format(time.RFC3339))
				}
				fmt.Fprintln(out, renderStatusLine("snapshot", kind, message, colorize))
			}

			lib, err := ctx.gameLibrary()
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("library", statusError, err.Error(), colorize))
				return nil
			}
			lib.UpdateDownloadStatus()
			fmt.Fprintln(out, renderStatusLine("library", statusInfo,
				fmt.Sprintf("%d records, %d downloaded", len(lib.Records()), len(lib.Downloaded())), colorize))
			return nil
		},
	}
}
