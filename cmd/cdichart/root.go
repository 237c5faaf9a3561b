package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"cdiChart/internal/config"
	"cdiChart/internal/finance"
	"cdiChart/internal/pipeline"
	"cdiChart/internal/storage"

	"github.com/spf13/cobra"
)

const usageMessage = "Error: you must pass the chart name as an argument."

func newRootCmd(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "cdichart <chart-name>",
		Short: "Fetch the CDI rate, synthesize a short series and plot it",
		Long: `cdichart fetches the latest CDI rate from the Banco Central API, writes ten
jittered samples one second apart to ` + cfg.StorePath + ` (only if that file does not
exist yet) and saves a line chart of the file as <chart-name>.png.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelInfo}))
			slog.SetDefault(logger)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || args[0] == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), usageMessage)
				fmt.Fprintln(cmd.ErrOrStderr(), "Usage: "+cmd.UseLine())
				return nil
			}
			return newRunner(cfg, slog.Default()).Run(cmd.Context(), args[0])
		},
	}
}

func newRunner(cfg config.Config, logger *slog.Logger) *pipeline.Runner {
	store := storage.NewSeriesStore(cfg.StorePath)
	client := &http.Client{Timeout: cfg.HTTPTimeout}
	return &pipeline.Runner{
		Store:   store,
		Fetcher: finance.NewRateFetcher(cfg.RateURL, client, logger),
		Generator: finance.NewSeriesGenerator(store, finance.GeneratorParams{
			Samples:  cfg.Samples,
			Interval: cfg.Interval,
			Logger:   logger,
		}),
		Renderer: finance.NewChartRenderer(store, finance.ChartParams{
			Dir:    cfg.ChartDir,
			Title:  cfg.ChartTitle,
			Width:  cfg.ChartWidth,
			Height: cfg.ChartHeight,
			Logger: logger,
		}),
		Logger: logger,
	}
}

// Execute runs the root command and exits non-zero on a fatal error.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
