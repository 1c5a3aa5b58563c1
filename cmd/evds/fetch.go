package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thesavant42/evds-ng/internal/api"
	"github.com/thesavant42/evds-ng/internal/cache"
	"github.com/thesavant42/evds-ng/internal/db"
	"github.com/thesavant42/evds-ng/internal/export"
	"github.com/thesavant42/evds-ng/internal/frame"
	"github.com/thesavant42/evds-ng/internal/ui"
)

// run holds everything one fetch invocation needs per index
type run struct {
	*app
	client    *api.Client
	database  *db.DB
	query     api.Query
	formats   []export.Format
	delimiter rune
}

func (a *app) runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	cfg := a.cfg
	if err := cfg.Validate(); err != nil {
		return err
	}
	delimiter, _ := cfg.DelimiterRune()

	formats, err := export.ParseFormats(cfg.Formats)
	if err != nil {
		return err
	}

	indexes, err := api.ParseIndexes(strings.Join(args, ","))
	if err != nil {
		return err
	}
	if len(indexes) == 0 {
		return fmt.Errorf("no series given")
	}

	var store *cache.Cache
	if cfg.Cache {
		store, err = cache.New(cache.Options{Dir: cfg.CacheDir, Verbose: cfg.Verbose, Logger: a.logger})
		if err != nil {
			return err
		}
	}

	opts := api.Options{
		APIKey:  cfg.APIKey,
		Proxy:   cfg.Proxy,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Cache:   store,
		Logger:  a.logger,
	}
	if !cfg.AutoConfirm {
		opts.Confirm = func(url string) (bool, error) {
			return a.confirm("Send request to EVDS?", url)
		}
	}
	client, err := api.NewClient(opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	r := &run{
		app:       a,
		client:    client,
		formats:   formats,
		delimiter: delimiter,
		query: api.Query{
			StartDate:   cfg.StartDate,
			EndDate:     cfg.EndDate,
			Frequency:   cfg.Frequency,
			Formulas:    cfg.Formulas,
			Aggregation: cfg.Aggregation,
		},
	}

	if cfg.SQLitePath != "" {
		r.database, err = db.New(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer r.database.Close()
	}

	var written, failed []string
	keyHinted := false
	for i, idx := range indexes {
		ui.PrintHeader(idx.String(), i+1, len(indexes))

		paths, err := r.process(cmd.Context(), idx)
		// outputs finished before a failure still exist on disk
		written = append(written, paths...)
		if err != nil {
			a.logger.Error("Series failed", "index", idx.String(), "error", err)
			ui.PrintError(fmt.Sprintf("%s: %v", idx, err))
			if errors.Is(err, api.ErrMissingAPIKey) && !keyHinted {
				ui.PrintInfo("Pass --apikey, set EVDS_APIKEY or run 'evds key set'")
				keyHinted = true
			}
			failed = append(failed, idx.String())
			if errors.Is(err, ui.ErrInterrupted) || errors.Is(cmd.Context().Err(), context.Canceled) {
				break
			}
		}
	}

	ui.PrintSummary(written, failed)
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d requests failed", len(failed), len(indexes))
	}
	return nil
}

// process fetches one index and writes every requested output
func (r *run) process(ctx context.Context, idx api.Index) ([]string, error) {
	rawURL := r.client.URL(idx, r.query)
	fromCache := r.client.IsCached(rawURL)

	var df *frame.DataFrame
	fetch := func() (err error) {
		df, err = r.client.FetchFrame(ctx, idx, r.query)
		return err
	}

	// The confirm prompt and the spinner both need the terminal
	var err error
	if r.cfg.AutoConfirm || fromCache {
		err = ui.RunWithSpinner(fmt.Sprintf("Fetching %s...", idx), fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}

	if df.Len() == 0 {
		r.logger.Warn("No records returned", "index", idx.String())
	}
	if r.cfg.Preview > 0 {
		ui.PrintPreview(df, r.cfg.Preview)
	}

	var paths []string
	for _, f := range r.formats {
		if f != export.FormatCSV && len(df.Columns()) == 0 {
			r.logger.Warn("Nothing to export", "index", idx.String(), "format", string(f))
			continue
		}
		path := filepath.Join(r.cfg.OutDir, api.OutputName(idx.String(), f.Ext()))
		if err := export.Write(df, f, path, r.delimiter); err != nil {
			return paths, err
		}
		ui.PrintSuccess(fmt.Sprintf("Wrote %d rows to %s", df.Len(), path))
		paths = append(paths, path)
	}

	if r.database != nil && len(df.Columns()) > 0 {
		table := db.TableName(idx.String())
		n, err := r.database.WriteFrame(table, df)
		if err != nil {
			return paths, err
		}
		if err := r.database.RecordExport(db.ExportRecord{
			Series:      idx.String(),
			URL:         rawURL,
			Fingerprint: r.client.Fingerprint(rawURL),
			Table:       table,
			Rows:        n,
			Columns:     len(df.Columns()),
			FromCache:   fromCache,
		}); err != nil {
			return paths, err
		}
		ui.PrintSuccess(fmt.Sprintf("Wrote %d rows to table %s", n, table))
		paths = append(paths, r.cfg.SQLitePath+"#"+table)
	}

	return paths, nil
}
