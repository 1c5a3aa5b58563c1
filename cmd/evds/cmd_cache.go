package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/thesavant42/evds-ng/internal/cache"
	"github.com/thesavant42/evds-ng/internal/ui"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the response cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := filepath.Abs(a.cfg.CacheDir)
				if err != nil {
					return err
				}
				fmt.Fprintln(ui.Output, dir)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List cached responses",
			Args:  cobra.NoArgs,
			RunE:  a.runCacheList,
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every cached response",
			Args:  cobra.NoArgs,
			RunE:  a.runCacheClear,
		},
	)
	return cmd
}

func (a *app) openCache() (*cache.Cache, error) {
	return cache.New(cache.Options{Dir: a.cfg.CacheDir, Verbose: a.cfg.Verbose, Logger: a.logger})
}

func (a *app) runCacheList(cmd *cobra.Command, args []string) error {
	store, err := a.openCache()
	if err != nil {
		return err
	}
	entries, err := store.Entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		ui.PrintInfo(fmt.Sprintf("No cached responses in %s", store.Dir()))
		return nil
	}

	var total int64
	pairs := make([][2]string, 0, len(entries))
	for _, e := range entries {
		total += e.Size
		pairs = append(pairs, [2]string{
			e.Fingerprint,
			fmt.Sprintf("%s, %s", humanize.Bytes(uint64(e.Size)), humanize.Time(e.ModTime)),
		})
	}
	ui.PrintKeyValues(pairs)
	ui.PrintInfo(fmt.Sprintf("%d entries, %s in %s", len(entries), humanize.Bytes(uint64(total)), store.Dir()))
	return nil
}

func (a *app) runCacheClear(cmd *cobra.Command, args []string) error {
	store, err := a.openCache()
	if err != nil {
		return err
	}

	if !a.cfg.AutoConfirm {
		ok, err := a.confirm("Clear the cache?", fmt.Sprintf("Every entry in %s will be deleted", store.Dir()))
		if err != nil {
			return err
		}
		if !ok {
			ui.PrintInfo("Nothing deleted")
			return nil
		}
	}

	n, err := store.Clear()
	if err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Deleted %d cached responses", n))
	return nil
}
