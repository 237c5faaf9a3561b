package finance

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchRate(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    float64
		wantErr error
	}{
		{
			name:   "last string value",
			status: http.StatusOK,
			body:   `[{"data":"01/02/2024","valor":"11.65"},{"data":"02/02/2024","valor":"11.15"}]`,
			want:   11.15,
		},
		{
			name:   "numeric value",
			status: http.StatusOK,
			body:   `[{"data":"02/02/2024","valor":10.4}]`,
			want:   10.4,
		},
		{
			name:   "decimal comma",
			status: http.StatusOK,
			body:   `[{"data":"02/02/2024","valor":"10,9"}]`,
			want:   10.9,
		},
		{
			name:    "not found status",
			status:  http.StatusNotFound,
			body:    `{"error":"not found"}`,
			wantErr: ErrNotFound,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `oops`,
			wantErr: ErrNotFound,
		},
		{
			name:    "empty series",
			status:  http.StatusOK,
			body:    `[]`,
			wantErr: ErrNotFound,
		},
		{
			name:    "missing value",
			status:  http.StatusOK,
			body:    `[{"data":"02/02/2024"}]`,
			wantErr: ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)
			got, err := NewRateFetcher(srv.URL, srv.Client(), discardLogger).FetchRate(context.Background())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestFetchRateMalformedBody(t *testing.T) {
	for _, body := range []string{`<html>`, `{"valor":"1"}`, `[{"valor":"abc"}]`, `[{"valor":true}]`, `[{"valor":"NaN"}]`, `[{"valor":"+Inf"}]`, `[{"valor":"-inf"}]`} {
		srv := serve(t, http.StatusOK, body)
		_, err := NewRateFetcher(srv.URL, srv.Client(), discardLogger).FetchRate(context.Background())
		require.Error(t, err, body)
		assert.NotErrorIs(t, err, ErrNotFound, body)
		assert.NotErrorIs(t, err, ErrConnection, body)
	}
}

func TestFetchRateConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewRateFetcher(url, nil, discardLogger).FetchRate(context.Background())
	require.ErrorIs(t, err, ErrConnection)
	assert.NotErrorIs(t, err, ErrNotFound)
}
