package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// captureConfig swaps the generate runner for one that records the resolved
// config. Tests using it must not run in parallel.
func captureConfig(t *testing.T, args ...string) (*GenerateConfig, error) {
	t.Helper()
	var captured *GenerateConfig
	generateRunner = func(ctx context.Context, cfg *GenerateConfig) error {
		captured = cfg
		return nil
	}
	t.Cleanup(func() { generateRunner = runGenerate })

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return captured, err
}

func TestGenerateConfigFromFlags(t *testing.T) {
	cfg, err := captureConfig(t,
		"--verbose",
		"generate",
		"--input", "metamodel.json",
		"--out", "./build",
		"--format", "YAML",
		"--include-tags", "VM,vm/power",
		"--exclude-tags", "session",
		"--include-unreleased",
		"--insecure",
		"--dry-run",
		"--force",
	)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := &GenerateConfig{
		Input:             "metamodel.json",
		Out:               "./build",
		Format:            "yaml",
		IncludeTags:       []string{"VM", "vm/power"},
		ExcludeTags:       []string{"session"},
		IncludeUnreleased: true,
		Insecure:          true,
		DryRun:            true,
		Force:             true,
		Verbose:           true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateConfigDefaults(t *testing.T) {
	cfg, err := captureConfig(t, "generate", "--input", "metamodel.json")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cfg.Out != defaultOutDir || cfg.Format != "json" || cfg.DryRun || cfg.Insecure {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestGenerateConfigPrecedence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := strings.TrimSpace(`input: config-metamodel.json
out: from-config
format: yaml
includeTags:
  - cfgFoo
exclude_tags: cfgBar, cfgBaz
include-unreleased: true
dryRun: true
force: false
verbose: "yes"
`) + "\n"
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := captureConfig(t,
		"--config", configPath,
		"generate",
		"--input", "flag-metamodel.json",
		"--include-tags", "flagTag",
		"--dry-run=false",
		"--force",
	)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := &GenerateConfig{
		Input:             "flag-metamodel.json",
		Out:               "from-config",
		Format:            "yaml",
		IncludeTags:       []string{"flagTag"},
		ExcludeTags:       []string{"cfgBar", "cfgBaz"},
		IncludeUnreleased: true,
		ConfigPath:        configPath,
		DryRun:            false,
		Force:             true,
		Verbose:           true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateConfigErrors(t *testing.T) {
	unknown := filepath.Join(t.TempDir(), "unknown.yaml")
	if err := os.WriteFile(unknown, []byte("lang: go\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	badBool := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(badBool, []byte("force: maybe\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cases := map[string][]string{
		"missing input":  {"generate"},
		"bad format":     {"generate", "--input", "m.json", "--format", "xml"},
		"tag overlap":    {"generate", "--input", "m.json", "--include-tags", "VM", "--exclude-tags", "VM"},
		"unknown key":    {"--config", unknown, "generate", "--input", "m.json"},
		"bad bool":       {"--config", badBool, "generate", "--input", "m.json"},
		"missing config": {"--config", filepath.Join(t.TempDir(), "nope.yaml"), "generate"},
	}
	for name, args := range cases {
		_, err := captureConfig(t, args...)
		if !errors.Is(err, ErrUsage) {
			t.Errorf("%s: expected usage error, got %v", name, err)
		}
		if ExitCode(err) != 2 {
			t.Errorf("%s: expected exit code 2, got %d", name, ExitCode(err))
		}
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()
	if ExitCode(nil) != 0 || ExitCode(errors.New("boom")) != 1 || ExitCode(newUsageError("x")) != 2 {
		t.Fatalf("unexpected exit codes")
	}
}
