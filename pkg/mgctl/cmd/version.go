package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telekom/mailgate/pkg/mgctl/output"
	"github.com/telekom/mailgate/pkg/version"
)

// NewVersionCommand prints the CLI build info. The root command skips
// config loading for it, so it works without a config file.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show mgctl version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			format, err := output.ParseFormat(rt.OutputFormat())
			if err != nil {
				return err
			}

			info := version.GetBuildInfo()
			if format == output.FormatTable {
				_, err := fmt.Fprintf(rt.Writer(), "mgctl %s (commit: %s, built: %s)\n", info.Version, info.GitCommit, info.BuildDate)
				return err
			}
			return output.WriteObject(rt.Writer(), format, info)
		},
	}
}
