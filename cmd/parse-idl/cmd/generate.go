package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jackalchenxu/parse-idl/internal/metrics"
	"github.com/jackalchenxu/parse-idl/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate [dir]",
	Short: "Generate Go files from every IDL document in a directory",
	Long: `Generate one Go file per *.json IDL document found directly inside dir
(default: the configured input directory).

Files are written to <output>/<package>/<stem>.go. Nothing is written when
any document fails to parse or lacks metadata.address.

Example:
  parse-idl generate ./target/idl -o ./bindings
  parse-idl generate ./idl -p amm --manifest
  parse-idl generate ./idl --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("output", "o", "./generated", "Output directory for generated code")
	generateCmd.Flags().StringP("package", "p", "", "Go package name (defaults to the document file name)")
	generateCmd.Flags().IntP("workers", "w", pipeline.DefaultWorkers, "Number of documents translated concurrently")
	generateCmd.Flags().Bool("manifest", false, "Write manifest.yaml into the output directory")
	generateCmd.Flags().Bool("watch", false, "Regenerate whenever an IDL document changes")

	for _, name := range []string{"output", "package", "workers", "manifest", "watch"} {
		bindFlag(name, generateCmd.Flags().Lookup(name))
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Input = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	p := pipeline.NewPipelineBuilder().
		FromConfig(cfg).
		Logger(logger).
		Metrics(metrics.NewCollection(recorder)).
		WithLogMetrics().
		Build()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Watch {
		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return p.Watch(ctx)
	}

	report, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	printReport(cmd.OutOrStdout(), report, recorder)
	return nil
}

func printReport(w io.Writer, report *pipeline.Report, recorder *metrics.Recorder) {
	if len(report.Documents) == 0 {
		warnColor.Fprintln(w, "No IDL documents found.")
		return
	}

	fmt.Fprintln(w, "Generated files:")
	for _, doc := range report.Documents {
		okColor.Fprint(w, "  ✓ ")
		fmt.Fprintf(w, "%s -> %s ", doc.Path, doc.OutPath)
		dimColor.Fprintf(w, "(%d instructions, %d types)\n", len(doc.Result.Table), len(doc.Result.Emitted))

		if !doc.Result.ProgramKeyValid {
			warnColor.Fprintf(w, "    address %q is not a valid public key; ProgramID omitted\n", doc.Result.Address)
		}
		for _, name := range doc.Result.Unresolved {
			warnColor.Fprintf(w, "    unresolved type: %s\n", name)
		}
	}

	if report.ManifestPath != "" {
		fmt.Fprintf(w, "Manifest: %s\n", report.ManifestPath)
	}

	fmt.Fprintf(w, "\n%d files written, %d types emitted, %d unresolved\n",
		recorder.Counter(metrics.MetricFilesWritten),
		recorder.Counter(metrics.MetricDefinitionsEmitted),
		recorder.Counter(metrics.MetricUnresolvedTypes))
}
