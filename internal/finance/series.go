package finance

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"cdiChart/internal/storage"
)

const (
	DefaultSamples  = 10
	DefaultInterval = time.Second
)

type GeneratorParams struct {
	// Samples holds the number of rows written per run.
	// If it's zero, DefaultSamples will be used.
	Samples int
	// Interval is the pause after each row.
	// If it's zero, DefaultInterval will be used.
	Interval time.Duration
	// Now is used to query the current time. If it's nil, time.Now will be used.
	Now func() time.Time
	// Sleep pauses between rows. If it's nil, time.Sleep will be used.
	Sleep func(time.Duration)
	// Rand supplies the jitter. If it's nil, a time-seeded source is used.
	Rand   *rand.Rand
	Logger *slog.Logger
}

// SeriesGenerator synthesizes a short paced series around a base rate.
type SeriesGenerator struct {
	store *storage.SeriesStore
	p     GeneratorParams
}

func NewSeriesGenerator(store *storage.SeriesStore, p GeneratorParams) *SeriesGenerator {
	if p.Samples == 0 {
		p.Samples = DefaultSamples
	}
	if p.Interval == 0 {
		p.Interval = DefaultInterval
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.Sleep == nil {
		p.Sleep = time.Sleep
	}
	if p.Rand == nil {
		p.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	return &SeriesGenerator{store: store, p: p}
}

// Generate writes p.Samples rows of base+U-0.5, U uniform in [0,1), one
// interval apart. It does nothing when the series file already exists.
//
// The existence check and the create are not atomic across processes; Create
// refuses to clobber a file that appears in between, but two concurrent runs
// are not supported.
func (g *SeriesGenerator) Generate(base float64) error {
	if math.IsNaN(base) || math.IsInf(base, 0) {
		return fmt.Errorf("base rate %v is not finite", base)
	}
	exists, err := g.store.Exists()
	if err != nil {
		return fmt.Errorf("check series file: %w", err)
	}
	if exists {
		g.p.Logger.Info("series: file already exists, no new data will be added", "path", g.store.Path())
		return nil
	}
	for i := 0; i < g.p.Samples; i++ {
		now := g.p.Now()
		rate := base + (g.p.Rand.Float64() - 0.5)
		if i == 0 {
			if err := g.store.Create(); err != nil {
				return fmt.Errorf("create series file: %w", err)
			}
		}
		if err := g.store.Append(storage.NewSample(now, rate)); err != nil {
			return err
		}
		g.p.Logger.Debug("series: sample written", "n", i+1, "rate", rate)
		g.p.Sleep(g.p.Interval)
	}
	g.p.Logger.Info("series: data saved", "path", g.store.Path(), "samples", g.p.Samples)
	return nil
}
