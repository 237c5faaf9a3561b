package finance

import "errors"

var (
	// ErrNotFound means the requested data is absent: the upstream answered
	// without a usable rate, or the series file does not exist yet.
	ErrNotFound = errors.New("not found")
	// ErrConnection wraps transport failures reaching the rate endpoint.
	ErrConnection = errors.New("connection error")
	// ErrEmptySeries means the series file holds a header but no samples.
	ErrEmptySeries = errors.New("series has no samples")
)
