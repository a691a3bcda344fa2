package bspdiff

import (
	"io"
	"log/slog"
)

// DefaultChunkSize is the chunk width used to diff opaque lumps.
const DefaultChunkSize = 32

// DefaultContext is the number of unchanged lines kept around each hunk.
const DefaultContext = 3

// Option configures a Differ.
type Option func(*options)

type options struct {
	pairing    map[int]int
	chunkSize  int
	context    int
	detail     bool
	partitions []string
	logger     *slog.Logger
}

func defaultOptions() options {
	return options{
		chunkSize: DefaultChunkSize,
		context:   DefaultContext,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithPairing sets which right-hand lump each left-hand index is compared
// with. Left indices missing from the map are not compared. The default
// pairs every index with itself.
func WithPairing(pairing map[int]int) Option {
	return func(o *options) {
		o.pairing = pairing
	}
}

// WithChunkSize sets the chunk width for opaque lump diffs.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}

// WithContext sets how many unchanged lines surround each hunk.
func WithContext(n int) Option {
	return func(o *options) {
		o.context = n
	}
}

// WithDetail enables detailed diffs of lumps whose content differs.
func WithDetail(detail bool) Option {
	return func(o *options) {
		o.detail = detail
	}
}

// WithPartitions sets the entity partitions to compare. The default is every
// partition either branch declares or either file has attached.
func WithPartitions(names ...string) Option {
	return func(o *options) {
		o.partitions = names
	}
}

// WithLogger sets the logger used to report downgraded and indeterminate
// lumps. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
