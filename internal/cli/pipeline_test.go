package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixture = "../metamodel/testdata/vsphere.yaml"

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()
	fn()
	_ = w.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.Execute()
}

func TestGeneratePipeline_DryRun(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	out := captureStdout(t, func() {
		if err := execute(t, "generate", "--input", fixture, "--out", outDir, "--dry-run"); err != nil {
			t.Fatalf("execute: %v", err)
		}
	})
	if !strings.Contains(out, "Planned writes to") || !strings.Contains(out, "- cis.json") || !strings.Contains(out, "- vcenter.json") {
		t.Fatalf("expected dry-run plan output, got: %s", out)
	}
	if _, err := os.Stat(outDir); err == nil {
		t.Fatalf("expected no writes on dry-run")
	}
}

func TestGeneratePipeline_WritesDocuments(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	out := captureStdout(t, func() {
		if err := execute(t, "generate", "--input", fixture, "--out", outDir, "--include-tags", "VM"); err != nil {
			t.Fatalf("execute: %v", err)
		}
	})
	if !strings.Contains(out, "Wrote 1 document(s)") {
		t.Fatalf("unexpected output: %s", out)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "vcenter.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc struct {
		Paths map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := doc.Paths["/vcenter/vm/{vm}"]["get"]; !ok {
		t.Fatalf("missing GET /vcenter/vm/{vm} in %v", doc.Paths)
	}
	if _, err := os.Stat(filepath.Join(outDir, "cis.json")); err == nil {
		t.Fatalf("cis document must be filtered out")
	}
}

func TestGeneratePipeline_Errors(t *testing.T) {
	dir := t.TempDir()
	if err := execute(t, "generate", "--input", filepath.Join(dir, "missing.json"), "--out", dir); ExitCode(err) != 2 {
		t.Fatalf("expected usage error for missing input, got %v", err)
	}
	if err := execute(t, "generate", "--input", fixture, "--out", dir, "--include-tags", "nothing-matches"); ExitCode(err) != 2 {
		t.Fatalf("expected usage error when everything is filtered, got %v", err)
	}

	nonEmpty := t.TempDir()
	if err := os.WriteFile(filepath.Join(nonEmpty, "keep.txt"), []byte("x"), 0o600); err != nil {
		t.Fatalf("prewrite: %v", err)
	}
	err := execute(t, "generate", "--input", fixture, "--out", nonEmpty)
	if ExitCode(err) != 2 || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("expected output usage error, got %v", err)
	}
}
