// Package pipeline runs one fetch, generate, render pass.
package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"cdiChart/internal/finance"
)

type (
	RateSource interface {
		FetchRate(ctx context.Context) (float64, error)
	}

	Generator interface {
		Generate(base float64) error
	}

	Renderer interface {
		Render(name string) (string, error)
	}

	Store interface {
		Exists() (bool, error)
	}

	Runner struct {
		Store     Store
		Fetcher   RateSource
		Generator Generator
		Renderer  Renderer
		Logger    *slog.Logger
	}
)

// Run fetches and generates the series only when the series file is missing,
// then renders it as chartName.png.
//
// A rate or series that is not found ends the run early with a nil error.
// Any other failure is returned and should end the process.
func (r *Runner) Run(ctx context.Context, chartName string) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	exists, err := r.Store.Exists()
	if err != nil {
		return err
	}
	if exists {
		logger.Info("series file already exists, no new data will be added")
	} else {
		logger.Info("series file not found, starting data extraction")
		base, err := r.Fetcher.FetchRate(ctx)
		if errors.Is(err, finance.ErrNotFound) {
			logger.Info("no CDI data found, stopping", "err", err)
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("fetch: base rate", "rate", base)
		if err := r.Generator.Generate(base); err != nil {
			return err
		}
	}

	logger.Info("generating chart...")
	path, err := r.Renderer.Render(chartName)
	if errors.Is(err, finance.ErrNotFound) {
		logger.Error("series file not found, chart not generated", "err", err)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("process completed successfully", "chart", path)
	return nil
}
