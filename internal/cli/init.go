package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const defaultConfigFile = "openapi-generator.yaml"

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath string
	Force      bool
}

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample openapi-generator configuration file",
		Long:  "Write a commented configuration file that documents every generate option.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			return initRunner(cmd.Context(), &InitConfig{OutputPath: out, Force: force})
		},
	}

	cmd.Flags().String("out", defaultConfigFile, "Where to write the sample config file")
	cmd.Flags().Bool("force", false, "Overwrite the target file if it already exists")
	return cmd
}

func runInit(_ context.Context, cfg *InitConfig) error {
	out := strings.TrimSpace(cfg.OutputPath)
	if out == "" {
		out = defaultConfigFile
	}
	absPath, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("init: resolve output path: %w", err)
	}

	if st, err := os.Stat(absPath); err == nil && st.Mode().IsRegular() && !cfg.Force {
		return newUsageError(fmt.Sprintf("init: %q already exists (use --force to overwrite)", absPath))
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot create parent directory: %v", err))
	}

	tmp := absPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(strings.TrimSpace(sampleConfigYAML)+"\n"), 0o644); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot write temp file: %v\nHint: choose a different --out or check directory permissions.", err))
	}
	if err := os.Rename(tmp, absPath); err != nil {
		_ = os.Remove(tmp)
		return newUsageError(fmt.Sprintf("init: cannot place file at %s: %v", absPath, err))
	}
	fmt.Fprintf(os.Stdout, "Wrote sample config to %s\n", absPath)
	return nil
}

const sampleConfigYAML = `# openapi-generator configuration (YAML or JSON)
# All fields are optional. Command-line flags override config values.

# Metamodel file path or http/https URL, e.g. https://<vcenter>/api/metamodel
# input: ./metamodel.json

# Output directory; one file per product is written here.
# out: ./openapi

# Document format: json or yaml.
# format: json

# Only include operations whose tag (service name without com.vmware.<product>) matches.
# includeTags: [VM, vm/power]

# Exclude operations with these tags (comma-separated or list).
# excludeTags: [session]

# Keep services and operations marked Changing or Proposed.
# includeUnreleased: false

# Skip TLS certificate verification when fetching the metamodel.
# insecure: false

# Preview planned outputs without writing files.
# dryRun: false

# Write into a non-empty output directory.
# force: false

# Enable debug logging.
# verbose: false
`
