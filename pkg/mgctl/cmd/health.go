package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/telekom/mailgate/pkg/mgctl/output"
)

func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the server is up",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			apiClient, err := buildClient(rt)
			if err != nil {
				return err
			}
			health, err := apiClient.Status().Health(context.Background())
			if err != nil {
				return err
			}
			format, err := output.ParseFormat(rt.OutputFormat())
			if err != nil {
				return err
			}
			if format == output.FormatTable {
				_, err := fmt.Fprintf(rt.Writer(), "%s (server version %s)\n", health.Status, health.Version)
				return err
			}
			return output.WriteObject(rt.Writer(), format, health)
		},
	}
}
