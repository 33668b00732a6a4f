package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/telekom/mailgate/pkg/mgctl/config"
	"github.com/telekom/mailgate/pkg/mgctl/output"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mgctl configuration",
	}
	cmd.AddCommand(
		newConfigInitCommand(),
		newConfigViewCommand(),
		newConfigUseContextCommand(),
	)
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		server   string
		name     string
		account  string
		caFile   string
		insecure bool
		force    bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file with an initial context",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			path := rt.configPathValue()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
			}
			cfg := config.DefaultConfig()
			cfg.CurrentContext = name
			cfg.Contexts = []config.Context{{
				Name:                  name,
				Server:                server,
				Account:               account,
				CAFile:                caFile,
				InsecureSkipTLSVerify: insecure,
			}}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(path, &cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Config written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "Mailgate server URL")
	cmd.Flags().StringVar(&name, "name", "default", "Context name")
	cmd.Flags().StringVar(&account, "account", "", "Default sending account for this context")
	cmd.Flags().StringVar(&caFile, "ca-file", "", "CA bundle for the server")
	cmd.Flags().BoolVar(&insecure, "insecure-skip-tls-verify", false, "Skip TLS verification")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	_ = cmd.MarkFlagRequired("server")
	return cmd
}

func newConfigViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show the active configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if err := rt.EnsureConfigLoaded(); err != nil {
				return err
			}
			format, err := output.ParseFormat(rt.OutputFormat())
			if err != nil {
				return err
			}
			// The config file is yaml, so that is also the human-readable view.
			if format == output.FormatTable {
				format = output.FormatYAML
			}
			return output.WriteObject(rt.Writer(), format, rt.cfg)
		},
	}
}

func newConfigUseContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use-context NAME",
		Short: "Switch the current context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if err := rt.EnsureConfigLoaded(); err != nil {
				return err
			}
			if _, err := rt.cfg.FindContext(args[0]); err != nil {
				return err
			}
			rt.cfg.CurrentContext = args[0]
			if err := config.Save(rt.configPathValue(), rt.cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Switched to context %q\n", args[0])
			return nil
		},
	}
}
