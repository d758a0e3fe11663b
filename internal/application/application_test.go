package application

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eugenenazirov/simconfig/internal/config"
	"github.com/eugenenazirov/simconfig/internal/loader"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func baseTestConfig(base, override string) config.Config {
	return config.Config{
		BaseFile:     base,
		OverrideFile: override,
		DumpFormat:   "text",
		RepeatKey:    "R",
		LogLevel:     "info",
	}
}

func TestRunLoadsBothFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "Base_Config.txt", "OrdersPerHour: 100\nNumberOfAisles: 5 // aisles\n")
	override := writeFile(t, dir, "Project_Config.txt", "OrdersPerHour: 200\n")

	var out bytes.Buffer
	app, err := New(baseTestConfig(base, override), zaptest.NewLogger(t), strings.NewReader("OrdersPerHour\n"), &out)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := app.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	got := out.String()
	baseIdx := strings.Index(got, "File "+base+" loaded..")
	overrideIdx := strings.Index(got, "File "+override+" loaded..")
	if baseIdx < 0 || overrideIdx < baseIdx {
		t.Fatalf("expected base then override notices, got:\n%s", got)
	}
	if strings.Count(got, "Current configuration:") != 2 {
		t.Fatalf("expected a dump after each file, got:\n%s", got)
	}
	if !strings.Contains(got[baseIdx:overrideIdx], "OrdersPerHour : 100") {
		t.Fatalf("expected base dump to show 100, got:\n%s", got)
	}
	if !strings.HasSuffix(got, "OrdersPerHour : 200\n\nPress R to repeat or any other key to quit..\n") {
		t.Fatalf("expected final lookup to show the override, got:\n%s", got)
	}

	v, err := app.Storage().Get("NumberOfAisles")
	if err != nil || v != 5 {
		t.Fatalf("expected NumberOfAisles 5 to survive the override, got %v (%v)", v, err)
	}
	if app.Report().Applied != 3 {
		t.Fatalf("expected 3 applied lines, got %d", app.Report().Applied)
	}
}

func TestRunReportsDiagnosticsAndContinues(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "Base_Config.txt", "Unknown: 5\nOrdersPerHour: notanumber\nPowerSupply: normal\n")
	override := writeFile(t, dir, "Project_Config.txt", "InboundStrategy: Optimized\n")

	var out bytes.Buffer
	app, err := New(baseTestConfig(base, override), zaptest.NewLogger(t), strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := app.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	diags := app.Report().Diagnostics
	if len(diags) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d: %v", len(diags), diags)
	}
	if diags[0].Kind != loader.UnknownField || diags[1].Kind != loader.TypeMismatch || diags[2].Kind != loader.TypeMismatch {
		t.Fatalf("unexpected diagnostic kinds: %v", diags)
	}

	got := out.String()
	for _, want := range []string{
		base + ":1: unknown field Unknown: \"5\"",
		base + ":2: type mismatch OrdersPerHour: \"notanumber\"",
		"OrdersPerHour : Not configured",
		"PowerSupply : normal",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestRunLogsAggregatedDiagnostics(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "Base_Config.txt", "Unknown: 5\nOrdersPerHour: notanumber\n")
	override := writeFile(t, dir, "Project_Config.txt", "NumberOfAisles: 3\n")

	core, logs := observer.New(zap.InfoLevel)
	app, err := New(baseTestConfig(base, override), zap.New(core), strings.NewReader(""), io.Discard)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := app.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	entries := logs.FilterMessage("configuration ready").All()
	if len(entries) != 1 {
		t.Fatalf("expected one summary entry, got %d", len(entries))
	}
	logged, ok := entries[0].ContextMap()["error"].(string)
	if !ok {
		t.Fatalf("expected summary to carry the aggregated error, got %v", entries[0].ContextMap())
	}
	for _, want := range []string{base + ":1: unknown field", base + ":2: type mismatch"} {
		if !strings.Contains(logged, want) {
			t.Fatalf("expected logged error to contain %q, got %q", want, logged)
		}
	}
}

func TestRunSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "Base_Config.txt", "NumberOfAisles: 5\n")
	missing := filepath.Join(dir, "Project_Config.txt")

	var out bytes.Buffer
	app, err := New(baseTestConfig(base, missing), zaptest.NewLogger(t), strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := app.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(out.String(), "File "+missing+" not found, skipping..") {
		t.Fatalf("expected missing file notice, got:\n%s", out.String())
	}
}

func TestRunFailsOnOpenError(t *testing.T) {
	app, err := New(baseTestConfig("a", "b"), zaptest.NewLogger(t), strings.NewReader(""), io.Discard)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	denied := errors.New("permission denied")
	app.open = func(string) (io.ReadCloser, error) {
		return nil, denied
	}

	if err := app.Run(); !errors.Is(err, denied) {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestRunYAMLDump(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "Base_Config.txt", "ResultStartTime: 08:00:00\n")
	override := writeFile(t, dir, "Project_Config.txt", "")

	cfg := baseTestConfig(base, override)
	cfg.DumpFormat = "yaml"

	var out bytes.Buffer
	app, err := New(cfg, zaptest.NewLogger(t), strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := app.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(out.String(), "OrdersPerHour: null") {
		t.Fatalf("expected YAML null for unset field, got:\n%s", out.String())
	}
}
