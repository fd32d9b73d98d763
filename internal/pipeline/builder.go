package pipeline

import (
	"log/slog"

	"github.com/jackalchenxu/parse-idl/internal/config"
	"github.com/jackalchenxu/parse-idl/internal/metrics"
)

// PipelineBuilder provides a fluent API for constructing a Pipeline.
type PipelineBuilder struct {
	pipeline *Pipeline
}

// NewPipelineBuilder creates a new PipelineBuilder with default settings.
func NewPipelineBuilder() *PipelineBuilder {
	return &PipelineBuilder{
		pipeline: NewPipeline(),
	}
}

// FromConfig copies the run settings from cfg.
func (b *PipelineBuilder) FromConfig(cfg *config.Config) *PipelineBuilder {
	b.pipeline.Input = cfg.Input
	b.pipeline.Output = cfg.Output
	b.pipeline.Package = cfg.Package
	b.pipeline.Workers = cfg.Workers
	b.pipeline.Manifest = cfg.Manifest
	return b
}

// Input sets the directory scanned for IDL documents.
func (b *PipelineBuilder) Input(dir string) *PipelineBuilder {
	b.pipeline.Input = dir
	return b
}

// Output sets the root of the generated tree.
func (b *PipelineBuilder) Output(dir string) *PipelineBuilder {
	b.pipeline.Output = dir
	return b
}

// Package forces one package name for every document.
func (b *PipelineBuilder) Package(name string) *PipelineBuilder {
	b.pipeline.Package = name
	return b
}

// Workers sets how many documents are translated at once.
func (b *PipelineBuilder) Workers(n int) *PipelineBuilder {
	b.pipeline.Workers = n
	return b
}

// Manifest enables or disables manifest.yaml.
func (b *PipelineBuilder) Manifest(enabled bool) *PipelineBuilder {
	b.pipeline.Manifest = enabled
	return b
}

// Metrics sets a custom metrics collection for the pipeline.
func (b *PipelineBuilder) Metrics(mc *metrics.Collection) *PipelineBuilder {
	b.pipeline.Metrics = mc
	return b
}

// WithLogMetrics reports run counters through the pipeline logger.
func (b *PipelineBuilder) WithLogMetrics() *PipelineBuilder {
	if b.pipeline.Metrics == nil {
		b.pipeline.Metrics = metrics.NewCollection()
	}
	b.pipeline.Metrics.Add(metrics.NewLogMetrics(b.pipeline.GetLogger()))
	return b
}

// Logger sets a custom logger for the pipeline.
func (b *PipelineBuilder) Logger(logger *slog.Logger) *PipelineBuilder {
	b.pipeline.SetLogger(logger)
	return b
}

// Build returns the constructed Pipeline.
func (b *PipelineBuilder) Build() *Pipeline {
	return b.pipeline
}
