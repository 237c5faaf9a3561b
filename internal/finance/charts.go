package finance

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"cdiChart/internal/storage"

	"github.com/vicanso/go-charts/v2"
)

type ChartParams struct {
	// Dir is where images are written. Empty means the working directory.
	Dir      string
	Title    string
	Subtitle string
	Width    int
	Height   int
	Logger   *slog.Logger
}

// ChartRenderer draws the series file as a PNG line chart.
type ChartRenderer struct {
	store *storage.SeriesStore
	p     ChartParams
}

func NewChartRenderer(store *storage.SeriesStore, p ChartParams) *ChartRenderer {
	if p.Title == "" {
		p.Title = "Variação da Taxa CDI"
	}
	if p.Subtitle == "" {
		p.Subtitle = "Hora x Taxa CDI"
	}
	if p.Width == 0 {
		p.Width = 1000
	}
	if p.Height == 0 {
		p.Height = 600
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	return &ChartRenderer{store: store, p: p}
}

// Render plots rate against time, in file order, and saves it as name.png.
// It returns the path of the image. When the series file is missing it
// returns ErrNotFound and writes nothing.
func (r *ChartRenderer) Render(name string) (string, error) {
	samples, err := r.store.ReadAll()
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, r.store.Path())
	}
	if err != nil {
		return "", fmt.Errorf("failed to read series: %w", err)
	}
	if len(samples) == 0 {
		return "", ErrEmptySeries
	}
	img, err := renderLine(samples, r.p)
	if err != nil {
		return "", err
	}
	path := filepath.Join(r.p.Dir, name+".png")
	if err := savePNG(path, img); err != nil {
		return "", fmt.Errorf("failed to save chart: %w", err)
	}
	r.p.Logger.Info("chart: saved", "path", path, "points", len(samples))
	return path, nil
}

func renderLine(samples []storage.Sample, p ChartParams) ([]byte, error) {
	x := make([]string, len(samples))
	y := make([]float64, len(samples))
	yMin, yMax := samples[0].Rate, samples[0].Rate
	for i, s := range samples {
		x[i] = s.Time
		y[i] = s.Rate
		if s.Rate < yMin {
			yMin = s.Rate
		}
		if s.Rate > yMax {
			yMax = s.Rate
		}
	}
	pad := (yMax - yMin) * 0.05
	if pad < math.Abs(yMax)*0.002 {
		pad = math.Abs(yMax) * 0.002
	}
	if pad == 0 {
		pad = 1
	}
	yMin -= pad
	yMax += pad
	// a single point needs the boundary gap or the axis has no width to divide
	var gap *bool
	if len(x) > 1 {
		gap = charts.FalseFlag()
	}

	painter, err := charts.LineRender([][]float64{y},
		charts.TitleTextOptionFunc(p.Title, p.Subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:         x,
			BoundaryGap:  gap,
			SplitNumber:  len(x),
			TextRotation: -math.Pi / 4,
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(p.Width),
		charts.HeightOptionFunc(p.Height),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	buf, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// savePNG stages the image beside its destination and renames it over
// path once fully flushed, so a failed run never leaves a truncated PNG.
func savePNG(path string, img []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".part-*")
	if err != nil {
		return err
	}
	staged := f.Name()
	defer func() {
		if err != nil {
			os.Remove(staged)
		}
	}()
	_, err = f.Write(img)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if err = os.Chmod(staged, 0o644); err != nil {
		return err
	}
	return os.Rename(staged, path)
}
