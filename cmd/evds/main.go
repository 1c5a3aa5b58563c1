// Command evds fetches time series from the EVDS service of the Central
// Bank of the Republic of Türkiye and exports them as CSV, XLSX, Parquet
// or SQLite tables.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/thesavant42/evds-ng/internal/config"
	"github.com/thesavant42/evds-ng/internal/ui"
)

func main() {
	// Load .env file if it exists (silently ignore if not found)
	if err := config.LoadDotEnv(".env"); err != nil {
		ui.PrintError(err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		ui.PrintError(err.Error())
		stop()
		os.Exit(1)
	}
}
