// Package pipeline runs the generator over a directory of IDL documents.
//
// A run discovers the documents, parses and translates them (optionally in
// parallel), and only then writes the generated files. Any fatal error in
// any document aborts the run before the first file is written, so a failed
// run never leaves a partial output tree behind.
//
// # Overview
//
//   - Discovery: every *.json file directly inside the input directory.
//   - Translation: one codegen.Result per document, bounded by Workers.
//   - Output: <output>/<package>/<stem>.go per document, plus an optional
//     manifest.yaml describing the run.
//   - Metrics: counters and timings reported to a metrics.Collection.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jackalchenxu/parse-idl/internal/codegen"
	"github.com/jackalchenxu/parse-idl/internal/common"
	"github.com/jackalchenxu/parse-idl/internal/errors"
	"github.com/jackalchenxu/parse-idl/internal/idl"
	"github.com/jackalchenxu/parse-idl/internal/metrics"
	"github.com/jackalchenxu/parse-idl/pkg/utils"
)

// DefaultWorkers translates documents one at a time.
const DefaultWorkers = 1

// ManifestFile is the name of the manifest written into the output directory.
const ManifestFile = "manifest.yaml"

// Pipeline holds the settings of a generator run.
type Pipeline struct {
	common.LoggerMixin

	// Input is the directory scanned for IDL documents.
	Input string

	// Output is the root of the generated tree.
	Output string

	// Package overrides the per-document package name when set.
	Package string

	// Workers bounds the number of documents translated at once.
	Workers int

	// Manifest enables writing manifest.yaml.
	Manifest bool

	// Metrics receives run counters.
	Metrics *metrics.Collection
}

// Document is one translated IDL document.
type Document struct {
	// Path is the source file.
	Path string

	// Stem is the file name without extension.
	Stem string

	// Package is the package clause of the generated file.
	Package string

	// OutPath is where the generated file is written.
	OutPath string

	// Version is the document's version field, verbatim.
	Version string

	Result *codegen.Result
}

// Report describes a finished run.
type Report struct {
	RunID     string
	Documents []*Document

	// ManifestPath is empty when no manifest was written.
	ManifestPath string
}

// NewPipeline creates a Pipeline with default settings.
func NewPipeline() *Pipeline {
	return &Pipeline{
		LoggerMixin: common.NewLoggerMixin(),
		Input:       ".",
		Output:      "./generated",
		Workers:     DefaultWorkers,
		Metrics:     metrics.NewCollection(metrics.NewNoopMetrics()),
	}
}

// Run executes one generator run.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	runID := uuid.New().String()
	logger := p.GetLogger().With("run_id", runID)
	start := time.Now()

	logger.Info("starting run", "input", p.Input, "output", p.Output, "workers", p.workers())

	paths, err := idl.FindIDLFiles(p.Input)
	if err != nil {
		return nil, err
	}
	p.count(ctx, metrics.MetricDocumentsDiscovered, uint64(len(paths)))

	if len(paths) == 0 {
		logger.Warn("no IDL documents found", "input", p.Input)
	}

	docs, err := p.translateAll(ctx, logger, paths)
	if err != nil {
		p.count(ctx, metrics.MetricDocumentsFailed, 1)
		p.flush(ctx, logger)
		logger.Error("run aborted, no files written", "error", err)
		return nil, err
	}

	if err := checkOutputs(docs); err != nil {
		p.flush(ctx, logger)
		return nil, err
	}

	report := &Report{RunID: runID, Documents: docs}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := doc.Result.WriteFile(doc.OutPath); err != nil {
			return nil, err
		}
		p.count(ctx, metrics.MetricFilesWritten, 1)
		logger.Info("generated", "document", doc.Path, "output", doc.OutPath,
			"types", len(doc.Result.Emitted), "unresolved", len(doc.Result.Unresolved))
	}

	if p.Manifest {
		path := filepath.Join(p.Output, ManifestFile)
		if err := WriteManifest(path, BuildManifest(runID, docs)); err != nil {
			return nil, err
		}
		report.ManifestPath = path
	}

	p.flush(ctx, logger)
	logger.Info("run finished", "documents", len(docs), "duration", time.Since(start))

	return report, nil
}

// translateAll parses and translates every document. The returned slice is
// in path order regardless of the number of workers.
func (p *Pipeline) translateAll(ctx context.Context, logger *slog.Logger, paths []string) ([]*Document, error) {
	docs := make([]*Document, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := p.translate(gctx, logger, path)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (p *Pipeline) translate(ctx context.Context, logger *slog.Logger, path string) (*Document, error) {
	start := time.Now()

	parsed, err := idl.ParseIDLFile(path)
	if err != nil {
		return nil, err
	}

	stem := idl.Stem(path)
	pkg := p.Package
	if pkg == "" {
		pkg = utils.PackageName(stem)
	}

	if parsed.Version != "" {
		if _, err := semver.NewVersion(parsed.Version); err != nil {
			logger.Warn("document version is not semver", "document", path, "version", parsed.Version)
		}
	}

	result, err := codegen.Translate(parsed, codegen.Options{
		PackageName: pkg,
		Source:      path,
		Logger:      logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000
	p.observe(ctx, metrics.MetricTranslateMilliseconds, elapsed)
	p.count(ctx, metrics.MetricDocumentsTranslated, 1)
	p.count(ctx, metrics.MetricDefinitionsEmitted, uint64(len(result.Emitted)))
	p.count(ctx, metrics.MetricUnresolvedTypes, uint64(len(result.Unresolved)))

	logger.Debug("translated", "document", path, "package", pkg,
		"instructions", len(result.Table), "elapsed_ms", elapsed)

	return &Document{
		Path:    path,
		Stem:    stem,
		Package: pkg,
		OutPath: filepath.Join(p.Output, pkg, stem+".go"),
		Version: parsed.Version,
		Result:  result,
	}, nil
}

// checkOutputs rejects runs where two documents would share a package
// directory. Every generated file declares ID, ProgramID and Discriminator,
// so two of them cannot live in one package.
func checkOutputs(docs []*Document) error {
	owners := make(map[string]string, len(docs))
	for _, doc := range docs {
		dir := filepath.Dir(doc.OutPath)
		if prev, ok := owners[dir]; ok {
			return errors.InvalidConfig(fmt.Sprintf(
				"%s and %s both generate package %q; set a distinct package per document", prev, doc.Path, doc.Package))
		}
		owners[dir] = doc.Path
	}
	return nil
}

func (p *Pipeline) workers() int {
	if p.Workers < 1 {
		return DefaultWorkers
	}
	return p.Workers
}

func (p *Pipeline) count(ctx context.Context, name string, value uint64) {
	if p.Metrics == nil {
		return
	}
	if err := p.Metrics.IncrementCounter(ctx, name, value); err != nil {
		p.GetLogger().Debug("failed to record metric", "name", name, "error", err)
	}
}

func (p *Pipeline) observe(ctx context.Context, name string, value float64) {
	if p.Metrics == nil {
		return
	}
	if err := p.Metrics.RecordHistogram(ctx, name, value); err != nil {
		p.GetLogger().Debug("failed to record metric", "name", name, "error", err)
	}
}

func (p *Pipeline) flush(ctx context.Context, logger *slog.Logger) {
	if p.Metrics == nil {
		return
	}
	if err := p.Metrics.Flush(ctx); err != nil {
		logger.Warn("failed to flush metrics", "error", err)
	}
}
