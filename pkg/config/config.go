package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

type Server struct {
	ListenAddress  string   `yaml:"listenAddress"`
	TLSCertFile    string   `yaml:"tlsCertFile"`
	TLSKeyFile     string   `yaml:"tlsKeyFile"`
	TrustedProxies []string `yaml:"trustedProxies"` // IPs/CIDRs to trust for X-Forwarded-For headers (e.g., ["10.0.0.0/8", "127.0.0.1"])

	// Timeouts tunes the HTTP server deadlines. Nil means defaults.
	Timeouts *ServerTimeouts `yaml:"timeouts"`
	// ShutdownTimeout is how long in-flight requests may drain on shutdown,
	// e.g. "45s". Empty means DefaultShutdownTimeout.
	ShutdownTimeout string `yaml:"shutdownTimeout"`
}

type CORS struct {
	// AllowOrigins lists the origins allowed to call the API from a browser.
	// Empty means the CORS middleware is not mounted.
	AllowOrigins []string `yaml:"allowOrigins"`
}

type RateLimit struct {
	Enabled bool    `yaml:"enabled"`
	Rate    float64 `yaml:"rate"`  // sustained requests per second per client IP
	Burst   int     `yaml:"burst"` // short burst allowance per client IP
}

type Telemetry struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"` // otlp | stdout | none
	Endpoint     string  `yaml:"endpoint"`
	Insecure     bool    `yaml:"insecure"`
	SamplingRate float64 `yaml:"samplingRate"`
}

type Templates struct {
	// Dir optionally points at a directory of additional *.html templates.
	// Files there win over the embedded defaults on name collision.
	Dir string `yaml:"dir"`
}

type Delivery struct {
	// MaxConcurrent caps simultaneous transport calls during individual
	// delivery. Values below 1 fall back to the default of 8.
	MaxConcurrent int `yaml:"maxConcurrent"`
}

type Config struct {
	Server    Server
	CORS      CORS
	RateLimit RateLimit
	Telemetry Telemetry
	Templates Templates
	Delivery  Delivery
	Accounts  []*AccountConfig
}

// Load loads the mailgate configuration from a file path.
// If configPath is empty, defaults to "./config.yaml".
func Load(configPath ...string) (Config, error) {
	var path string

	// Use provided path or fall back to default
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	} else {
		path = "./config.yaml"
	}

	var config Config

	content, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("trying to open mailgate config file %s: %v", path, err)
	}

	err = yaml.Unmarshal(content, &config)
	if err != nil {
		return config, fmt.Errorf("error unmarshaling YAML %s: %v", path, err)
	}

	config.applyDefaults()
	config.applyEnvOverrides()

	if err := config.validateAccounts(); err != nil {
		return config, err
	}
	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = ":8080"
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Rate == 0 {
			c.RateLimit.Rate = 10
		}
		if c.RateLimit.Burst == 0 {
			c.RateLimit.Burst = 20
		}
	}
	if c.Telemetry.Exporter == "" {
		c.Telemetry.Exporter = "otlp"
	}
	if c.Telemetry.SamplingRate == 0 {
		c.Telemetry.SamplingRate = 1.0
	}
	if c.Delivery.MaxConcurrent < 1 {
		c.Delivery.MaxConcurrent = 8
	}
	for _, a := range c.Accounts {
		a.applyDefaults()
	}
}

// applyEnvOverrides lets credentials come from the environment instead of the
// config file, e.g. MAILGATE_ACCOUNT_GENERAL_PASSWORD for the "general" account.
func (c *Config) applyEnvOverrides() {
	for _, a := range c.Accounts {
		a.applyEnvOverrides()
	}
}

// validateAccounts enforces that at least one account exists and that exactly
// one of them is marked default. Accounts with missing credentials are not an
// error here: they get disabled with a reason and their endpoints answer with
// a configuration error instead of sending.
func (c *Config) validateAccounts() error {
	if len(c.Accounts) == 0 {
		return fmt.Errorf("no mail accounts configured")
	}

	seen := make(map[string]bool, len(c.Accounts))
	defaultCount := 0
	for _, a := range c.Accounts {
		if a.Name == "" {
			return fmt.Errorf("mail account without a name")
		}
		if seen[a.Name] {
			return fmt.Errorf("duplicate mail account name %q", a.Name)
		}
		seen[a.Name] = true

		if err := a.validate(); err != nil {
			return fmt.Errorf("mail account %q: %w", a.Name, err)
		}
		if a.Default {
			defaultCount++
		}
	}

	if defaultCount == 0 {
		return fmt.Errorf("no default mail account configured")
	}
	if defaultCount > 1 {
		return fmt.Errorf("multiple default mail accounts found (%d)", defaultCount)
	}
	return nil
}

// DefaultAccount returns the account marked default. Load guarantees there is
// exactly one.
func (c *Config) DefaultAccount() *AccountConfig {
	for _, a := range c.Accounts {
		if a.Default {
			return a
		}
	}
	return nil
}

// Account looks up an account by name.
func (c *Config) Account(name string) (*AccountConfig, bool) {
	for _, a := range c.Accounts {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}
