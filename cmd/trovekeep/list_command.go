package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"trovekeep/internal/library"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var newest bool
	var notDownloaded bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library records",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := ctx.gameLibrary()
			if err != nil {
				return err
			}
			lib.UpdateDownloadStatus()

			records := lib.Records()
			if notDownloaded {
				records = lib.NotDownloaded()
			}
			records = sortedRecords(records, newest)

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No records. Run `trovekeep update` first.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				added := time.Unix(record.DateAdded, 0).UTC().Format("2006-01-02")
				note := ""
				if record.RemovedFromCatalog {
					note = "removed"
				}
				rows = append(rows, []string{
					record.DisplayTitle(),
					record.Platform,
					added,
					yesNo(record.Downloaded),
					note,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Title", "Platform", "Added", "Downloaded", "Note"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&newest, "newest", false, "Sort by date added, newest first")
	cmd.Flags().BoolVar(&notDownloaded, "not-downloaded", false, "Only records without a downloaded installer")
	return cmd
}

func sortedRecords(records []library.Record, newest bool) []library.Record {
	out := make([]library.Record, len(records))
	copy(out, records)
	if newest {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].DateAdded > out[j].DateAdded
		})
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayTitle()) < strings.ToLower(out[j].DisplayTitle())
	})
	return out
}
