package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackalchenxu/parse-idl/internal/common"
	"github.com/jackalchenxu/parse-idl/internal/config"
	"github.com/jackalchenxu/parse-idl/internal/errors"
	"github.com/jackalchenxu/parse-idl/internal/metrics"
)

const poolIDL = `{
	"version": "0.1.0",
	"name": "pool",
	"instructions": [
		{"name": "initialize_pool", "accounts": [], "args": [{"name": "authority", "type": "publicKey"}]},
		{"name": "deposit", "accounts": [], "args": [{"name": "state", "type": {"defined": "PoolState"}}]}
	],
	"accounts": [
		{"name": "PoolState", "type": {"kind": "struct", "fields": [{"name": "bump", "type": "u8"}]}}
	],
	"metadata": {"address": "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"}
}`

const routerIDL = `{
	"version": "latest",
	"name": "router",
	"instructions": [
		{"name": "route", "args": [{"name": "plan", "type": {"defined": "Plan"}}]}
	],
	"types": [
		{"name": "Hop", "type": {"kind": "struct", "fields": [{"name": "pool", "type": "publicKey"}]}},
		{"name": "Plan", "type": {"kind": "struct", "fields": [{"name": "hop", "type": {"defined": "Hop"}}]}}
	],
	"metadata": {"address": "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"}
}`

const noAddressIDL = `{"instructions": [], "metadata": {"name": "broken"}}`

func writeIDLs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func newTestPipeline(input, output string) *PipelineBuilder {
	return NewPipelineBuilder().
		Input(input).
		Output(output).
		Logger(common.DiscardLogger())
}

func TestRun_GeneratesOneFilePerDocument(t *testing.T) {
	input := writeIDLs(t, map[string]string{
		"pool.json":   poolIDL,
		"Router.JSON": routerIDL,
		"notes.txt":   "ignored",
	})
	output := filepath.Join(t.TempDir(), "out")
	recorder := metrics.NewRecorder()

	p := newTestPipeline(input, output).Metrics(metrics.NewCollection(recorder)).Build()
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Documents, 2)
	assert.NotEmpty(t, report.RunID)
	assert.Empty(t, report.ManifestPath)

	router, pool := report.Documents[0], report.Documents[1]
	assert.Equal(t, "Router", router.Stem)
	assert.Equal(t, "router", router.Package)
	assert.Equal(t, filepath.Join(output, "router", "Router.go"), router.OutPath)
	assert.Equal(t, filepath.Join(output, "pool", "pool.go"), pool.OutPath)

	src, err := os.ReadFile(pool.OutPath)
	require.NoError(t, err)
	assert.Contains(t, string(src), "package pool")
	assert.Contains(t, string(src), "type InitializePool struct")
	assert.Contains(t, string(src), "type PoolState struct")

	assert.FileExists(t, router.OutPath)
	assert.Equal(t, []string{"Hop"}, router.Result.Unresolved)

	assert.Equal(t, uint64(2), recorder.Counter(metrics.MetricDocumentsDiscovered))
	assert.Equal(t, uint64(2), recorder.Counter(metrics.MetricDocumentsTranslated))
	assert.Equal(t, uint64(2), recorder.Counter(metrics.MetricFilesWritten))
	assert.Equal(t, uint64(2), recorder.Counter(metrics.MetricDefinitionsEmitted))
	assert.Equal(t, uint64(1), recorder.Counter(metrics.MetricUnresolvedTypes))
	assert.Len(t, recorder.Observations(metrics.MetricTranslateMilliseconds), 2)
}

func TestRun_FatalDocumentWritesNothing(t *testing.T) {
	tests := []struct {
		name    string
		broken  string
		wantErr error
	}{
		{"missing address", noAddressIDL, errors.ErrMissingAddress},
		{"malformed json", `{"instructions": [`, errors.ErrParseFailed},
		{"unknown kind", `{"types": [{"name": "X", "type": {"kind": "union"}}], "metadata": {"address": "x"}}`, errors.ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := writeIDLs(t, map[string]string{
				"a_pool.json":   poolIDL,
				"b_broken.json": tt.broken,
				"c_router.json": routerIDL,
			})
			output := filepath.Join(t.TempDir(), "out")

			for _, workers := range []int{1, 3} {
				report, err := newTestPipeline(input, output).Workers(workers).Manifest(true).Build().Run(context.Background())
				require.Error(t, err)
				assert.Nil(t, report)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.NoDirExists(t, output)
			}
		})
	}
}

func TestRun_WorkersDoNotChangeOutput(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"alpha", "beta", "gamma", "delta", "epsilon"} {
		files[name+".json"] = poolIDL
	}
	input := writeIDLs(t, files)

	render := func(workers int) map[string]string {
		output := t.TempDir()
		report, err := newTestPipeline(input, output).Workers(workers).Build().Run(context.Background())
		require.NoError(t, err)

		out := make(map[string]string, len(report.Documents))
		var order []string
		for _, doc := range report.Documents {
			rel, err := filepath.Rel(output, doc.OutPath)
			require.NoError(t, err)
			data, err := os.ReadFile(doc.OutPath)
			require.NoError(t, err)
			out[rel] = string(data)
			order = append(order, doc.Stem)
		}
		assert.Equal(t, []string{"alpha", "beta", "delta", "epsilon", "gamma"}, order)
		return out
	}

	assert.Equal(t, render(1), render(4))
}

func TestRun_ConfiguredPackage(t *testing.T) {
	input := writeIDLs(t, map[string]string{"2024-pool.json": poolIDL})
	output := t.TempDir()

	report, err := newTestPipeline(input, output).Package("amm").Build().Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Documents, 1)
	assert.Equal(t, filepath.Join(output, "amm", "2024-pool.go"), report.Documents[0].OutPath)

	src, err := os.ReadFile(report.Documents[0].OutPath)
	require.NoError(t, err)
	assert.Contains(t, string(src), "package amm")
}

func TestRun_DefaultPackageFromStem(t *testing.T) {
	input := writeIDLs(t, map[string]string{"2024-pool.json": poolIDL})
	output := t.TempDir()

	report, err := newTestPipeline(input, output).Build().Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "idl2024pool", report.Documents[0].Package)
}

func TestRun_PackageCollision(t *testing.T) {
	input := writeIDLs(t, map[string]string{"pool.json": poolIDL, "router.json": routerIDL})
	output := filepath.Join(t.TempDir(), "out")

	_, err := newTestPipeline(input, output).Package("amm").Build().Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
	assert.NoDirExists(t, output)
}

func TestRun_Manifest(t *testing.T) {
	input := writeIDLs(t, map[string]string{"pool.json": poolIDL, "router.json": routerIDL})
	output := t.TempDir()

	report, err := newTestPipeline(input, output).Manifest(true).Build().Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(output, ManifestFile), report.ManifestPath)

	m, err := ReadManifest(report.ManifestPath)
	require.NoError(t, err)
	assert.Equal(t, report.RunID, m.RunID)
	require.Len(t, m.Documents, 2)

	pool := m.Documents[0]
	assert.Equal(t, "pool", pool.Package)
	assert.Equal(t, "0.1.0", pool.Version)
	assert.Equal(t, "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", pool.ProgramID)
	assert.True(t, pool.ValidProgramKey)
	assert.Equal(t, []ManifestInstruction{
		{Name: "initialize_pool", Discriminator: "5fb40aac54aee828"},
		{Name: "deposit", Discriminator: "f223c68952e1f2b6"},
	}, pool.Instructions)
	assert.Equal(t, []string{"InitializePool", "Deposit"}, pool.ArgStructs)
	assert.Equal(t, []string{"PoolState"}, pool.Types)
	assert.Empty(t, pool.Unresolved)

	router := m.Documents[1]
	assert.Equal(t, []string{"Hop"}, router.Unresolved)
	assert.Equal(t, []string{"Plan"}, router.Types)
}

func TestRun_AdvisoryWarnings(t *testing.T) {
	input := writeIDLs(t, map[string]string{"router.json": routerIDL})
	var logs bytes.Buffer
	logger := common.NewLogger(config.LogConfig{Level: "warn", Format: "text"}, &logs)

	_, err := NewPipelineBuilder().Input(input).Output(t.TempDir()).Logger(logger).Build().Run(context.Background())
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "document version is not semver")
	assert.Contains(t, out, "unresolved type")
	assert.Contains(t, out, "run_id=")
}

func TestRun_EmptyInput(t *testing.T) {
	report, err := newTestPipeline(t.TempDir(), t.TempDir()).Build().Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Documents)
}

func TestRun_MissingInput(t *testing.T) {
	_, err := newTestPipeline(filepath.Join(t.TempDir(), "nope"), t.TempDir()).Build().Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDiscoveryFailed))
}

func TestRun_CancelledContext(t *testing.T) {
	input := writeIDLs(t, map[string]string{"pool.json": poolIDL})
	output := filepath.Join(t.TempDir(), "out")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPipeline(input, output).Build().Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoDirExists(t, output)
}

func TestBuilder_FromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Input = "idl"
	cfg.Output = "bindings"
	cfg.Package = "programs"
	cfg.Workers = 4
	cfg.Manifest = true

	p := NewPipelineBuilder().FromConfig(cfg).WithLogMetrics().Build()

	assert.Equal(t, "idl", p.Input)
	assert.Equal(t, "bindings", p.Output)
	assert.Equal(t, "programs", p.Package)
	assert.Equal(t, 4, p.Workers)
	assert.True(t, p.Manifest)
	assert.Equal(t, 2, p.Metrics.Len())
}
