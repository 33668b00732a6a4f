package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/telekom/mailgate/pkg/mgctl/output"
)

func NewAccountsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the server's sending accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			apiClient, err := buildClient(rt)
			if err != nil {
				return err
			}
			accounts, err := apiClient.Status().Accounts(context.Background())
			if err != nil {
				return err
			}
			format, err := output.ParseFormat(rt.OutputFormat())
			if err != nil {
				return err
			}
			if format == output.FormatTable {
				output.WriteAccountTable(rt.Writer(), accounts)
				return nil
			}
			return output.WriteObject(rt.Writer(), format, accounts)
		},
	}
}
