package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/thesavant42/evds-ng/internal/db"
	"github.com/thesavant42/evds-ng/internal/ui"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	var series string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List exports recorded in the SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.SQLitePath == "" {
				return fmt.Errorf("no database given, pass --sqlite")
			}
			database, err := db.New(a.cfg.SQLitePath)
			if err != nil {
				return err
			}
			defer database.Close()

			var records []db.ExportRecord
			if series != "" {
				records, err = database.ExportsForSeries(series)
			} else {
				records, err = database.ListExports(limit)
			}
			if err != nil {
				return err
			}
			if len(records) == 0 {
				ui.PrintInfo("No exports recorded")
				return nil
			}

			pairs := make([][2]string, 0, len(records))
			for _, r := range records {
				source := "live"
				if r.FromCache {
					source = "cache"
				}
				pairs = append(pairs, [2]string{
					fmt.Sprintf("#%d %s", r.ID, r.Series),
					fmt.Sprintf("%d rows x %d cols -> %s (%s, %s)",
						r.Rows, r.Columns, r.Table, source, humanize.Time(r.ExportedAt)),
				})
			}
			ui.PrintKeyValues(pairs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().StringVar(&series, "series", "", "only show exports of this index")
	return cmd
}
