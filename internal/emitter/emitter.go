// Package emitter serializes generated OpenAPI documents and writes them to
// disk, one file per product.
package emitter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"sigs.k8s.io/yaml"
)

// Format is the serialization of the written documents.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml and yml in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("emitter: unsupported format %q (want json or yaml)", s)
}

// Options controls how documents are written.
type Options struct {
	OutDir string // required
	Format Format // defaults to json
	Force  bool   // overwrite into a non-empty directory
	DryRun bool   // plan only
}

// PlannedFile describes a file the emitter intends to write.
type PlannedFile struct {
	RelPath string
	Product string
	Size    int
	Mode    os.FileMode
}

// Result lists the planned files in path order.
type Result struct {
	Planned []PlannedFile
}

// Emit renders every document as <product>.<format> under opts.OutDir.
func Emit(ctx context.Context, docs map[string]*openapi3.T, opts Options) (*Result, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("emitter: no documents to write")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("emitter: OutDir is required")
	}
	format := opts.Format
	if format == "" {
		format = FormatJSON
	}

	products := make([]string, 0, len(docs))
	for p := range docs {
		products = append(products, p)
	}
	sort.Strings(products)

	files := make(map[string][]byte, len(docs))
	planned := make([]PlannedFile, 0, len(docs))
	for _, product := range products {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := Marshal(docs[product], format)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", product, err)
		}
		rel := product + "." + string(format)
		files[rel] = data
		planned = append(planned, PlannedFile{RelPath: rel, Product: product, Size: len(data), Mode: 0o644})
	}

	if !opts.DryRun {
		if err := writeFiles(opts.OutDir, files, opts.Force); err != nil {
			return nil, err
		}
	}
	return &Result{Planned: planned}, nil
}

// Marshal serializes a document. YAML is produced from the JSON form so both
// carry the same keys, $ref handling included.
func Marshal(doc *openapi3.T, format Format) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("emitter: nil document")
	}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	switch format {
	case FormatJSON, "":
		return append(data, '\n'), nil
	case FormatYAML:
		out, err := yaml.JSONToYAML(data)
		if err != nil {
			return nil, fmt.Errorf("convert to yaml: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("emitter: unsupported format %q", format)
}

func writeFiles(outDir string, files map[string][]byte, force bool) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve out dir: %w", err)
	}
	if st, err := os.Stat(abs); err == nil && st.IsDir() && !force {
		entries, rerr := os.ReadDir(abs)
		if rerr == nil && len(entries) > 0 {
			return fmt.Errorf("emitter: output directory %q is not empty (use --force to overwrite)", abs)
		}
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	for rel, content := range files {
		p := filepath.Join(abs, rel)
		// temp file + rename so readers never see a partial document
		tmp, err := os.CreateTemp(abs, "."+rel+".tmp-*")
		if err != nil {
			return fmt.Errorf("create temp %s: %w", rel, err)
		}
		if _, err := tmp.Write(content); err != nil {
			tmp.Close()
			_ = os.Remove(tmp.Name())
			return fmt.Errorf("write temp %s: %w", rel, err)
		}
		if err := tmp.Close(); err != nil {
			_ = os.Remove(tmp.Name())
			return fmt.Errorf("close temp %s: %w", rel, err)
		}
		if err := os.Chmod(tmp.Name(), 0o644); err != nil {
			_ = os.Remove(tmp.Name())
			return fmt.Errorf("chmod %s: %w", rel, err)
		}
		if err := os.Rename(tmp.Name(), p); err != nil {
			_ = os.Remove(tmp.Name())
			return fmt.Errorf("rename %s: %w", rel, err)
		}
	}
	return nil
}
