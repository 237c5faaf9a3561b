package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006/01/02"
	TimeLayout = "15:04:05"
)

// Header is the column row written once at the top of a new series file.
var Header = []string{"date", "time", "rate"}

// legacy column names written by older versions of the tool
var headerAliases = map[string]string{
	"data": "date",
	"hora": "time",
	"taxa": "rate",
}

// Sample is one row of the series file.
type Sample struct {
	Date string
	Time string
	Rate float64
}

// NewSample splits t into the fixed-width date and time columns.
func NewSample(t time.Time, rate float64) Sample {
	return Sample{Date: t.Format(DateLayout), Time: t.Format(TimeLayout), Rate: rate}
}

func (s Sample) record() []string {
	return []string{s.Date, s.Time, strconv.FormatFloat(s.Rate, 'f', -1, 64)}
}

// SeriesStore is the append-only CSV file holding generated samples.
// It assumes a single writer; nothing guards against concurrent invocations.
type SeriesStore struct{ path string }

func NewSeriesStore(path string) *SeriesStore { return &SeriesStore{path: path} }

func (s *SeriesStore) Path() string { return s.path }

// Exists reports whether the series file is present, whatever its content.
func (s *SeriesStore) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Create makes the file and writes the header. It fails if the file is already there.
func (s *SeriesStore) Create() error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if err := writeRecord(f, Header); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	return f.Close()
}

// Append adds one sample line to the end of an existing file.
func (s *SeriesStore) Append(sm Sample) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return err
	}
	if err := writeRecord(f, sm.record()); err != nil {
		f.Close()
		return fmt.Errorf("append sample: %w", err)
	}
	return f.Close()
}

func writeRecord(w io.Writer, rec []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rec); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// ReadAll returns every sample in file order. A missing file yields an error
// satisfying errors.Is(err, fs.ErrNotExist).
func (s *SeriesStore) ReadAll() ([]Sample, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readSamples(f)
}

func readSamples(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	headers, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	col := map[string]int{}
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		if alias, ok := headerAliases[h]; ok {
			h = alias
		}
		col[h] = i
	}
	for _, name := range Header {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("csv header %q lacks column %q", strings.Join(headers, ","), name)
		}
	}

	var out []Sample
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		if len(row) != len(headers) {
			return nil, fmt.Errorf("line %d: got %d fields, want %d", line, len(row), len(headers))
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(row[col["rate"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid rate: %w", line, err)
		}
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			return nil, fmt.Errorf("line %d: invalid rate: %v is not finite", line, rate)
		}
		out = append(out, Sample{
			Date: strings.TrimSpace(row[col["date"]]),
			Time: strings.TrimSpace(row[col["time"]]),
			Rate: rate,
		})
	}
	return out, nil
}
