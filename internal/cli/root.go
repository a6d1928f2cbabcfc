package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Execute runs the openapi-generator CLI. Cancelling ctx aborts a metamodel
// fetch or a pending write.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openapi-generator",
		Short: "Generate OpenAPI documents from vAPI metamodels",
		Long: "openapi-generator reads the metamodel of a vSphere API endpoint and writes " +
			"one OpenAPI 3 document per product (vcenter, appliance, content, ...).",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Config file path (YAML or JSON)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging on stderr")

	for _, sub := range []*cobra.Command{cmd, newGenerateCmd(), newInitCmd()} {
		// unknown flags and bad values come back as usage errors with help text
		sub.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
			return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
		})
		if sub != cmd {
			cmd.AddCommand(sub)
		}
	}
	return cmd
}
