package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/telekom/mailgate/pkg/mgctl/config"
)

type Config struct {
	ConfigPath   string
	OutputWriter io.Writer
}

type runtimeState struct {
	configPath      string
	cfg             *config.Config
	contextOverride string
	outputFormat    string
	serverOverride  string
	accountOverride string
	verbose         bool
	writer          io.Writer
}

type runtimeKey struct{}

func DefaultConfig() Config {
	return Config{
		ConfigPath:   config.DefaultConfigPath(),
		OutputWriter: os.Stdout,
	}
}

func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{configPath: cfg.ConfigPath, writer: cfg.OutputWriter}

	root := &cobra.Command{
		Use:   "mgctl",
		Short: "Mailgate CLI",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			rt.applyEnvFallbacks()
			if !needsConfig(cmd) {
				return nil
			}
			// A server override is all the connection info mailgate needs, so
			// commands can run without a config file.
			if rt.serverOverride != "" {
				rt.cfg = &config.Config{
					Version: config.VersionV1,
				}
				return nil
			}

			cfg, err := config.Load(rt.configPath)
			if err != nil {
				return err
			}
			rt.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rt.configPath, "config", rt.configPath, "Path to config file")
	root.PersistentFlags().StringVarP(&rt.contextOverride, "context", "c", "", "Context name override")
	root.PersistentFlags().StringVarP(&rt.outputFormat, "output", "o", "", "Output format: table, json, yaml")
	root.PersistentFlags().StringVar(&rt.serverOverride, "server", "", "Server override (bypass config)")
	root.PersistentFlags().StringVar(&rt.accountOverride, "account", "", "Sending account override")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "Enable verbose request logging")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		NewConfigCommand(),
		NewSendCommand(),
		NewAccountsCommand(),
		NewHealthCommand(),
		NewCompletionCommand(),
		NewVersionCommand(),
	)

	return root
}

// applyEnvFallbacks fills any flag left at its zero value from the matching
// MGCTL_* environment variable. Flags always win over the environment.
func (rt *runtimeState) applyEnvFallbacks() {
	if rt.writer == nil {
		rt.writer = os.Stdout
	}
	if rt.configPath == "" {
		rt.configPath = config.DefaultConfigPath()
	}
	if rt.contextOverride == "" {
		rt.contextOverride = os.Getenv("MGCTL_CONTEXT")
	}
	if rt.outputFormat == "" {
		rt.outputFormat = os.Getenv("MGCTL_OUTPUT")
	}
	if rt.serverOverride == "" {
		rt.serverOverride = os.Getenv("MGCTL_SERVER")
	}
	if rt.accountOverride == "" {
		rt.accountOverride = os.Getenv("MGCTL_ACCOUNT")
	}
	if !rt.verbose {
		rt.verbose = strings.EqualFold(os.Getenv("MGCTL_VERBOSE"), "true")
	}
}

// needsConfig reports whether a command requires the config file. config init
// creates the file, and version and completion never talk to a server.
func needsConfig(cmd *cobra.Command) bool {
	if cmd.Name() == "init" && cmd.Parent() != nil && cmd.Parent().Name() == "config" {
		return false
	}
	return cmd.Name() != "version" && cmd.Name() != "completion"
}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

func (rt *runtimeState) ResolveContextName() string {
	if rt.contextOverride != "" {
		return rt.contextOverride
	}
	if rt.cfg != nil {
		return rt.cfg.CurrentContextOrDefault()
	}
	return ""
}

func (rt *runtimeState) OutputFormat() string {
	if rt.outputFormat != "" {
		return rt.outputFormat
	}
	if rt.cfg != nil && rt.cfg.Settings.OutputFormat != "" {
		return rt.cfg.Settings.OutputFormat
	}
	return "table"
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

func (rt *runtimeState) EnsureConfigLoaded() error {
	if rt.cfg != nil {
		return nil
	}
	cfg, err := config.Load(rt.configPath)
	if err != nil {
		return err
	}
	rt.cfg = cfg
	return nil
}

func (rt *runtimeState) ResolveContext() (*config.Context, error) {
	if rt.cfg == nil {
		return nil, errors.New("config not loaded")
	}
	name := rt.ResolveContextName()
	if name == "" {
		return nil, errors.New("no context configured")
	}
	return rt.cfg.FindContext(name)
}

// ResolveAccount picks the sending account: the --account flag wins, then the
// context's account, then empty for the server's default.
func (rt *runtimeState) ResolveAccount() string {
	if rt.accountOverride != "" {
		return rt.accountOverride
	}
	if rt.cfg != nil {
		if ctx, err := rt.ResolveContext(); err == nil {
			return ctx.Account
		}
	}
	return ""
}

func (rt *runtimeState) configPathValue() string {
	if rt.configPath == "" {
		return config.DefaultConfigPath()
	}
	return rt.configPath
}
