package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vmware/vmware-openapi-generator/internal/emitter"
	"github.com/vmware/vmware-openapi-generator/internal/generator"
	"github.com/vmware/vmware-openapi-generator/internal/logging"
	"github.com/vmware/vmware-openapi-generator/internal/metamodel"
)

const defaultOutDir = "openapi"

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	Input             string
	Out               string
	Format            string
	IncludeTags       []string
	ExcludeTags       []string
	IncludeUnreleased bool
	Insecure          bool
	ConfigPath        string
	DryRun            bool
	Force             bool
	Verbose           bool
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{Out: defaultOutDir, Format: string(emitter.FormatJSON)}
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate OpenAPI documents from a vAPI metamodel",
		Long: "Generate one OpenAPI 3 document per product from a vAPI metamodel file or endpoint. " +
			"Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  openapi-generator generate --input metamodel.json --out ./openapi
  openapi-generator generate --input https://vcenter.local/api/metamodel --insecure --format yaml
  openapi-generator --config generator.yaml generate --force --dry-run`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or http/https URL of the metamodel (JSON or YAML)")
	flags.String("out", "", "Output directory; defaults to ./"+defaultOutDir)
	flags.String("format", "", "Document format (json|yaml); defaults to json")
	flags.StringSlice("include-tags", nil, "Only include operations with these tags")
	flags.StringSlice("exclude-tags", nil, "Exclude operations with these tags")
	flags.Bool("include-unreleased", false, "Keep services and operations marked Changing or Proposed")
	flags.Bool("insecure", false, "Skip TLS certificate verification when fetching the metamodel")
	flags.Bool("dry-run", false, "Preview planned outputs without writing files")
	flags.Bool("force", false, "Write into a non-empty output directory")

	return cmd
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if configPath = strings.TrimSpace(configPath); configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyConfigFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyGenerateFlagOverrides copies only the flags the user actually set, so
// config file values survive flag defaults.
func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	strs := map[string]*string{
		"input":  &cfg.Input,
		"out":    &cfg.Out,
		"format": &cfg.Format,
	}
	for name, dst := range strs {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = strings.TrimSpace(v)
	}

	lists := map[string]*[]string{
		"include-tags": &cfg.IncludeTags,
		"exclude-tags": &cfg.ExcludeTags,
	}
	for name, dst := range lists {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetStringSlice(name)
		if err != nil {
			return err
		}
		*dst = sanitizeTags(v)
	}

	bools := map[string]*bool{
		"include-unreleased": &cfg.IncludeUnreleased,
		"insecure":           &cfg.Insecure,
		"dry-run":            &cfg.DryRun,
		"force":              &cfg.Force,
		"verbose":            &cfg.Verbose,
	}
	for name, dst := range bools {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

func (c *GenerateConfig) normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Out = strings.TrimSpace(c.Out)
	if c.Out == "" {
		c.Out = defaultOutDir
	}
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.IncludeTags = sanitizeTags(c.IncludeTags)
	c.ExcludeTags = sanitizeTags(c.ExcludeTags)
}

func (c *GenerateConfig) validate() error {
	if c.Input == "" {
		return newUsageError("generate: --input is required (set via flag or config file)")
	}
	format, err := emitter.ParseFormat(c.Format)
	if err != nil {
		return newUsageError(fmt.Sprintf("generate: unsupported --format %q (allowed: json, yaml)", c.Format))
	}
	c.Format = string(format)
	if overlap := intersect(c.IncludeTags, c.ExcludeTags); len(overlap) > 0 {
		return newUsageError(fmt.Sprintf("generate: include/exclude tags overlap: %s", strings.Join(overlap, ", ")))
	}
	return nil
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	log := logging.New(cfg.Verbose, os.Stderr)

	doc, err := metamodel.Load(ctx, cfg.Input, metamodel.WithInsecureSkipVerify(cfg.Insecure))
	if err != nil {
		var le *metamodel.LoadError
		if errors.As(err, &le) {
			msg := fmt.Sprintf("metamodel: %s", le.Message)
			if le.Location != "" {
				msg = fmt.Sprintf("%s\nLocation: %s", msg, le.Location)
			}
			return newUsageError(msg)
		}
		return err
	}
	log.Debug("loaded metamodel", "input", cfg.Input, "components", len(doc.Components))

	res, err := generator.Generate(doc,
		generator.WithLogger(log.Named("generator")),
		generator.WithIncludeTags(cfg.IncludeTags),
		generator.WithExcludeTags(cfg.ExcludeTags),
		generator.WithIncludeUnreleased(cfg.IncludeUnreleased),
	)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if len(res.Documents) == 0 {
		return newUsageError("generate: no operations left to generate after filtering")
	}

	absOut := cfg.Out
	if ap, err := filepath.Abs(cfg.Out); err == nil {
		absOut = ap
	}

	er, err := emitter.Emit(ctx, res.Documents, emitter.Options{
		OutDir: cfg.Out,
		Format: emitter.Format(cfg.Format),
		Force:  cfg.Force,
		DryRun: cfg.DryRun,
	})
	if err != nil {
		return wrapOutputError(err, absOut)
	}

	paths := make([]string, 0, len(er.Planned))
	for _, p := range er.Planned {
		paths = append(paths, p.RelPath)
	}
	if cfg.DryRun {
		printPlan(absOut, paths)
	} else {
		fmt.Fprintf(os.Stdout, "Wrote %d document(s) to %s\n", len(paths), absOut)
	}
	if err := res.Diagnostics.Err(); err != nil {
		log.Warn("generation finished with diagnostics", "count", len(res.Diagnostics), "skipped_operations", res.Skipped)
		log.Debug("diagnostic detail", "error", err.Error())
	}
	return nil
}

func printPlan(outDir string, relPaths []string) {
	fmt.Fprintf(os.Stdout, "Planned writes to %s (%d files):\n", outDir, len(relPaths))
	for _, p := range relPaths {
		fmt.Fprintf(os.Stdout, "- %s\n", p)
	}
}

func wrapOutputError(err error, outDir string) error {
	lower := strings.ToLower(err.Error())
	for _, hint := range []string{"permission", "read-only", "mkdir", "rename", "output directory"} {
		if strings.Contains(lower, hint) {
			return newUsageError(fmt.Sprintf("output error for %s: %v\nHint: choose a different --out or use --force when appropriate.", outDir, err))
		}
	}
	return err
}

func sanitizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	var result []string
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(a))
	for _, item := range a {
		set[item] = struct{}{}
	}
	var result []string
	for _, item := range b {
		if _, ok := set[item]; ok {
			result = append(result, item)
		}
	}
	return result
}
