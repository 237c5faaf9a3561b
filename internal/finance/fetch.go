package finance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// RateFetcher reads the latest value of a Banco Central SGS series.
type RateFetcher struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

func NewRateFetcher(url string, client *http.Client, logger *slog.Logger) *RateFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RateFetcher{url: url, client: client, logger: logger}
}

// FetchRate returns the value of the last entry of the series.
//
// A non-2xx answer or an empty series yields ErrNotFound. Failing to reach the
// endpoint at all yields ErrConnection.
func (f *RateFetcher) FetchRate(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "curl/8")
	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error("fetch: failed to reach rate API", "url", f.url, "err", err)
		return 0, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return 0, fmt.Errorf("%w: failed to read rate response: %w", ErrConnection, readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Info("fetch: data not found, continuing", "status", resp.StatusCode)
		return 0, fmt.Errorf("%w: rate API returned %d: %s", ErrNotFound, resp.StatusCode, preview(body))
	}
	return parseLastValue(body)
}

// parseLastValue extracts "valor" from the last element of an SGS JSON array:
//
//	[{"data":"02/01/2024","valor":"0.043739"}, ...]
func parseLastValue(body []byte) (float64, error) {
	if !gjson.ValidBytes(body) {
		return 0, fmt.Errorf("rate API returned non-json body: %s", preview(body))
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return 0, fmt.Errorf("rate API returned %s, want a JSON array", root.Type)
	}
	items := root.Array()
	if len(items) == 0 {
		return 0, fmt.Errorf("%w: rate series is empty", ErrNotFound)
	}
	last := items[len(items)-1]
	v := last.Get("valor")
	switch v.Type {
	case gjson.Number:
		return v.Float(), nil
	case gjson.String:
		s := strings.Replace(strings.TrimSpace(v.Str), ",", ".", 1)
		rate, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid rate %q for %s: %w", v.Str, last.Get("data").String(), err)
		}
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			return 0, fmt.Errorf("invalid rate %q for %s: not finite", v.Str, last.Get("data").String())
		}
		return rate, nil
	case gjson.Null:
		if !v.Exists() {
			return 0, fmt.Errorf("%w: last entry has no value", ErrNotFound)
		}
		return 0, fmt.Errorf("%w: last entry has a null value", ErrNotFound)
	}
	return 0, errors.New("rate value is neither a number nor a string")
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
