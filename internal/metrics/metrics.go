// Package metrics collects counters and timings for generator runs.
//
// A run reports through a Collection, which fans every call out to the
// registered Metrics implementations. NoopMetrics discards everything,
// LogMetrics writes a summary through slog when flushed, and Recorder keeps
// the values in memory so callers can read them back after a run.
package metrics

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// Metrics is a sink for run metrics.
type Metrics interface {
	// IncrementCounter adds value to the named counter.
	IncrementCounter(ctx context.Context, name string, value uint64) error

	// RecordHistogram records one observation of the named histogram.
	RecordHistogram(ctx context.Context, name string, value float64) error

	// Flush reports buffered values. It is called once when a run ends.
	Flush(ctx context.Context) error
}

// Metric names reported by the pipeline.
const (
	MetricDocumentsDiscovered   = "documents_discovered"
	MetricDocumentsTranslated   = "documents_translated"
	MetricDocumentsFailed       = "documents_failed"
	MetricFilesWritten          = "files_written"
	MetricDefinitionsEmitted    = "definitions_emitted"
	MetricUnresolvedTypes       = "unresolved_types"
	MetricTranslateMilliseconds = "translate_time_milliseconds"
)

// Collection delegates to every registered implementation.
type Collection struct {
	mu      sync.RWMutex
	metrics []Metrics
}

// NewCollection creates a Collection over the given implementations.
func NewCollection(metrics ...Metrics) *Collection {
	return &Collection{metrics: metrics}
}

// Add registers another implementation.
func (c *Collection) Add(m Metrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = append(c.metrics, m)
}

// Len returns the number of registered implementations.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.metrics)
}

// IncrementCounter increments the counter on every implementation.
func (c *Collection) IncrementCounter(ctx context.Context, name string, value uint64) error {
	return c.each(func(m Metrics) error { return m.IncrementCounter(ctx, name, value) })
}

// RecordHistogram records the value on every implementation.
func (c *Collection) RecordHistogram(ctx context.Context, name string, value float64) error {
	return c.each(func(m Metrics) error { return m.RecordHistogram(ctx, name, value) })
}

// Flush flushes every implementation.
func (c *Collection) Flush(ctx context.Context) error {
	return c.each(func(m Metrics) error { return m.Flush(ctx) })
}

// each stops at the first failing implementation.
func (c *Collection) each(fn func(Metrics) error) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, m := range c.metrics {
		if err := fn(m); err != nil {
			return err
		}
	}
	return nil
}

// NoopMetrics is a Metrics implementation that does nothing.
type NoopMetrics struct{}

// NewNoopMetrics creates a new NoopMetrics.
func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) IncrementCounter(ctx context.Context, name string, value uint64) error {
	return nil
}

func (n *NoopMetrics) RecordHistogram(ctx context.Context, name string, value float64) error {
	return nil
}

func (n *NoopMetrics) Flush(ctx context.Context) error { return nil }

// Recorder keeps counters and histogram observations in memory.
type Recorder struct {
	mu         sync.RWMutex
	counters   map[string]uint64
	histograms map[string][]float64
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		counters:   make(map[string]uint64),
		histograms: make(map[string][]float64),
	}
}

func (r *Recorder) IncrementCounter(ctx context.Context, name string, value uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[name] += value
	return nil
}

func (r *Recorder) RecordHistogram(ctx context.Context, name string, value float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histograms[name] = append(r.histograms[name], value)
	return nil
}

func (r *Recorder) Flush(ctx context.Context) error { return nil }

// Counter returns the current value of the named counter.
func (r *Recorder) Counter(name string) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counters[name]
}

// Observations returns a copy of the values recorded for a histogram.
func (r *Recorder) Observations(name string) []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]float64(nil), r.histograms[name]...)
}

// Counters returns a snapshot of every counter.
func (r *Recorder) Counters() map[string]uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]uint64, len(r.counters))
	for k, v := range r.counters {
		out[k] = v
	}
	return out
}

// LogMetrics accumulates values and logs them through slog on Flush.
type LogMetrics struct {
	*Recorder
	logger *slog.Logger
}

// NewLogMetrics creates a LogMetrics. If logger is nil, the default logger
// is used.
func NewLogMetrics(logger *slog.Logger) *LogMetrics {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMetrics{
		Recorder: NewRecorder(),
		logger:   logger,
	}
}

func (l *LogMetrics) IncrementCounter(ctx context.Context, name string, value uint64) error {
	_ = l.Recorder.IncrementCounter(ctx, name, value)
	l.logger.Debug("counter incremented", "name", name, "value", value, "total", l.Counter(name))
	return nil
}

// Flush logs every counter, in name order, in one record.
func (l *LogMetrics) Flush(ctx context.Context) error {
	counters := l.Counters()
	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	sort.Strings(names)

	attrs := make([]any, 0, len(names)*2)
	for _, name := range names {
		attrs = append(attrs, name, counters[name])
	}
	l.logger.InfoContext(ctx, "run metrics", attrs...)
	return nil
}
