package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thesavant42/evds-ng/internal/api"
	"github.com/thesavant42/evds-ng/internal/config"
	"github.com/thesavant42/evds-ng/internal/ui"
)

var version = "dev"

// confirmPrompt is replaced in tests
var confirmPrompt = ui.Confirm

// app carries the state shared by the commands of one invocation
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *log.Logger

	// confirm asks before live requests and destructive actions
	confirm func(title, description string) (bool, error)
}

func newRootCmd() *cobra.Command {
	a := &app{
		v:       viper.New(),
		confirm: confirmPrompt,
	}

	cmd := &cobra.Command{
		Use:   "evds [flags] <indexes>",
		Short: "Fetch EVDS time series and export them",
		Long: `evds downloads series and data groups from the EVDS service and writes
one file per request.

<indexes> is a comma separated list of requests. Series fetched together are
joined with '-' (TP.DK.USD.A-TP.DK.EUR.A), data groups start with bie_
(bie_yssk), and a .txt or .csv file lists one request per line.`,
		Example: `  evds TP.DK.USD.A-TP.DK.EUR.A --start-date 01-01-2021 --end-date 31-12-2021 --cache
  evds bie_yssk,TP.DK.USD.A --frequency monthly --format csv,xlsx
  evds indexes.txt --yes --sqlite evds.db`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
		RunE:              a.runFetch,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./evds.yaml)")
	pf.BoolP("verbose", "v", false, "verbose logging")
	pf.Bool("cache", false, "reuse cached responses and cache new ones")
	pf.String("cache-dir", ".caches", "cache directory")
	pf.String("apikey", "", "EVDS API key (default $EVDS_APIKEY, then the keyring)")
	pf.String("proxy", "", "proxy URL (default $HTTPS_PROXY/$HTTP_PROXY)")
	pf.String("base-url", "", "EVDS service root")
	pf.Duration("timeout", 0, "HTTP timeout (default 1m)")
	pf.BoolP("yes", "y", false, "do not ask before sending requests")
	pf.String("sqlite", "", "SQLite database for table export and history")
	_ = pf.MarkHidden("base-url")

	f := cmd.Flags()
	f.StringP("start-date", "s", "01-01-2000", "start date DD-MM-YYYY")
	f.StringP("end-date", "e", "31-12-2100", "end date DD-MM-YYYY")
	f.StringP("frequency", "f", api.Default, "daily, business, weekly, semimonthly, monthly, quarterly, semiannually, annual")
	f.String("formulas", api.Default, "level, percentage_change, difference, yoy, yoy_diff, pc_end, dif_end, mov_ave, mov_sum")
	f.StringP("aggregation", "a", api.Default, "avg, min, max, first, last, sum")
	f.StringP("out-dir", "o", ".", "output directory")
	f.StringP("delimiter", "d", ",", "CSV delimiter (\"tab\" for a tab)")
	f.String("format", "csv", "comma separated output formats: csv, xlsx, parquet")
	f.Int("preview", 0, "print the first N rows of every frame")

	bindings := map[string]string{
		"verbose":      "verbose",
		"cache":        "cache",
		"cache_dir":    "cache-dir",
		"apikey":       "apikey",
		"proxy":        "proxy",
		"base_url":     "base-url",
		"timeout":      "timeout",
		"auto_confirm": "yes",
		"sqlite":       "sqlite",
		"start_date":   "start-date",
		"end_date":     "end-date",
		"frequency":    "frequency",
		"formulas":     "formulas",
		"aggregation":  "aggregation",
		"out_dir":      "out-dir",
		"delimiter":    "delimiter",
		"formats":      "format",
		"preview":      "preview",
	}
	for key, name := range bindings {
		flag := pf.Lookup(name)
		if flag == nil {
			flag = f.Lookup(name)
		}
		_ = a.v.BindPFlag(key, flag)
	}

	cmd.AddCommand(
		newCacheCmd(a),
		newKeyCmd(a),
		newHistoryCmd(a),
	)
	return cmd
}

// load resolves the configuration and builds the logger
func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := log.WarnLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}
	a.logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "evds",
	})
	return nil
}
