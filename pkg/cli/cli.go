package cli

import (
	"flag"
	"os"
	"strings"

	"go.uber.org/zap"
)

type Config struct {
	// Application flags
	Debug bool

	// Configuration flags
	ConfigPath    string
	ListenAddress string
	TemplatesDir  string

	// DryRun forces the log transport for every account so no mail
	// leaves the process. Useful for staging and template work.
	DryRun bool

	// Shutdown flags
	ShutdownTimeout string
}

func Parse() *Config {
	config := &Config{}
	// Define command-line flags with environment variable fallbacks.
	// The pattern: flag.XxxVar(&variable, "flag-name", defaultValueOrEnvValue, "help text")
	flag.BoolVar(&config.Debug, "debug", false, "Enable debug level logging")

	// Configuration flags
	flag.StringVar(&config.ConfigPath, "config-path", getEnvString("MAILGATE_CONFIG_PATH", "./config.yaml"),
		"Path to the mailgate configuration file")
	flag.StringVar(&config.ListenAddress, "listen-address", getEnvString("MAILGATE_LISTEN_ADDRESS", ""),
		"The address the HTTP server binds to (host:port). Overrides the config file when set")
	flag.StringVar(&config.TemplatesDir, "templates-dir", getEnvString("MAILGATE_TEMPLATES_DIR", ""),
		"Directory with additional mail templates. Overrides the config file when set")

	flag.BoolVar(&config.DryRun, "dry-run", getEnvBool("MAILGATE_DRY_RUN", false),
		"Log outbound mail instead of sending it (replaces every account transport with the log sink)")

	// Shutdown configuration
	flag.StringVar(&config.ShutdownTimeout, "shutdown-timeout", getEnvString("MAILGATE_SHUTDOWN_TIMEOUT", ""),
		"How long to wait for in-flight requests on shutdown (e.g., '10s', '1m'). Overrides the config file when set")

	// Parse command-line flags and enable logging flag options
	flag.Parse()

	return config
}

func (c *Config) Print(log *zap.SugaredLogger) {
	log.Infow("CLI Configuration",
		// Debug and logging
		"debug", c.Debug,
		// Configuration paths
		"config_path", c.ConfigPath,
		"listen_address", c.ListenAddress,
		"templates_dir", c.TemplatesDir,
		// Delivery behavior
		"dry_run", c.DryRun,
		// Shutdown
		"shutdown_timeout", c.ShutdownTimeout,
	)
}

// getEnvString returns the value of an environment variable, or the provided default if not set.
func getEnvString(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvBool returns the value of an environment variable as a bool, or the provided default if not set.
// Valid true values are "true", "1", "yes" (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}
