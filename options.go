package provao

import (
	"log/slog"

	"github.com/CiroJunio/provao/blobstore"
	"github.com/CiroJunio/provao/resource"
)

const (
	// DefaultMemory is the default heap capacity of run generation.
	DefaultMemory = 20
	// DefaultThreshold is the default number of records quicksort holds in
	// memory.
	DefaultThreshold = 15
)

type options struct {
	memory           int
	threshold        int
	metricsCollector MetricsCollector
	logger           *Logger
	controller       *resource.Controller
	source           blobstore.BlobStore
}

// Option configures a Sorter.
type Option func(*options)

// WithMemory sets the number of heap entries used by run generation.
// Larger heaps produce fewer, longer runs.
func WithMemory(m int) Option {
	return func(o *options) {
		o.memory = m
	}
}

// WithThreshold sets the largest partition quicksort sorts in memory. It is
// also the pivot sample size.
func WithThreshold(t int) Option {
	return func(o *options) {
		o.threshold = t
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	mc := &provao.BasicMetricsCollector{}
//	s, _ := provao.New(work, provao.WithMetricsCollector(mc))
//	// ... sort ...
//	stats := mc.GetStats()
//	fmt.Printf("Sorts: %d, Avg latency: %dns\n", stats.SortCount, stats.AvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := provao.NewJSONLogger(slog.LevelInfo)
//	s, _ := provao.New(work, provao.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController bounds the working memory of every invocation and
// optionally throttles record file IO.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithSource sets the store holding the binary exports.
// Without it, a local working store doubles as the source directory.
func WithSource(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.source = store
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		memory:           DefaultMemory,
		threshold:        DefaultThreshold,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
