package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"
)

// Transport kinds an account can use.
const (
	ProviderSMTP = "smtp"
	ProviderSES  = "ses"
	ProviderLog  = "log"
)

// AccountConfig is one outbound mail account. Every account gets its own
// send endpoint; the default account additionally serves the bare send route.
type AccountConfig struct {
	// Name identifies the account in URLs and logs
	Name string `yaml:"name"`

	// DisplayName is a human-readable name
	DisplayName string `yaml:"displayName"`

	// Default indicates if this is the default account
	Default bool `yaml:"default"`

	// Disabled can be set explicitly; it is also set by the loader when
	// required credentials are absent. A disabled account keeps its endpoint
	// but every call answers with a configuration error.
	Disabled bool `yaml:"disabled"`

	// DisabledReason says why the loader disabled the account. Not read from YAML.
	DisabledReason string `yaml:"-"`

	// Provider selects the transport: smtp (default), ses, or log
	Provider string `yaml:"provider"`

	// SMTP configuration
	Host                 string `yaml:"host"`
	Port                 int    `yaml:"port"`
	Username             string `yaml:"username"`
	Password             string `yaml:"password"`
	InsecureSkipVerify   bool   `yaml:"insecureSkipVerify"`
	CertificateAuthority string `yaml:"certificateAuthority"`

	// SES configuration
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`

	// Sender configuration
	SenderAddress string `yaml:"senderAddress"`
	SenderName    string `yaml:"senderName"`
}

func (a *AccountConfig) applyDefaults() {
	if a.Provider == "" {
		a.Provider = ProviderSMTP
	}
	if a.DisplayName == "" {
		a.DisplayName = a.Name
	}
	if a.Provider == ProviderSMTP && a.Port == 0 && a.Host != "" {
		a.Port = 587
	}
}

// applyEnvOverrides pulls secrets from MAILGATE_ACCOUNT_<NAME>_* variables so
// credential material can stay out of the config file.
func (a *AccountConfig) applyEnvOverrides() {
	prefix := "MAILGATE_ACCOUNT_" + envKey(a.Name) + "_"
	if v, ok := os.LookupEnv(prefix + "USERNAME"); ok {
		a.Username = v
	}
	if v, ok := os.LookupEnv(prefix + "PASSWORD"); ok {
		a.Password = v
	}
	if v, ok := os.LookupEnv(prefix + "ACCESS_KEY_ID"); ok {
		a.AccessKeyID = v
	}
	if v, ok := os.LookupEnv(prefix + "SECRET_ACCESS_KEY"); ok {
		a.SecretAccessKey = v
	}
}

func envKey(name string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(name))
}

// validate rejects malformed accounts and disables incompletely provisioned
// ones. Missing credentials never fail the load: the account is disabled with
// a reason instead, so the process comes up and the endpoint reports the
// problem per request.
func (a *AccountConfig) validate() error {
	switch a.Provider {
	case ProviderSMTP:
		a.disableSMTPWhenIncomplete()
	case ProviderSES:
		a.disableSESWhenIncomplete()
	case ProviderLog:
		// nothing to provision
	default:
		return fmt.Errorf("unknown provider %q (expected smtp, ses, or log)", a.Provider)
	}
	return nil
}

func (a *AccountConfig) disableSMTPWhenIncomplete() {
	if a.Disabled {
		return
	}
	switch {
	case a.Host == "":
		a.disable("smtp host not configured")
	case a.SenderAddress == "":
		a.disable("sender address not configured")
	case a.Username == "" || a.Password == "":
		a.disable("smtp credentials not configured")
	}
}

func (a *AccountConfig) disableSESWhenIncomplete() {
	if a.Disabled {
		return
	}
	switch {
	case a.Region == "":
		a.disable("ses region not configured")
	case a.SenderAddress == "":
		a.disable("sender address not configured")
	case a.AccessKeyID != "" && a.SecretAccessKey == "":
		// explicit key without its secret; ambient credentials are fine
		a.disable("ses secret access key not configured")
	}
}

func (a *AccountConfig) disable(reason string) {
	a.Disabled = true
	a.DisabledReason = reason
}

// GetTLSConfig returns TLS configuration for the SMTP dialer
func (a *AccountConfig) GetTLSConfig() *tls.Config {
	tlsConfig := &tls.Config{
		ServerName:         a.Host,
		InsecureSkipVerify: a.InsecureSkipVerify,
	}

	// Add custom CA certificate if provided
	if a.CertificateAuthority != "" {
		certPool := x509.NewCertPool()
		if ok := certPool.AppendCertsFromPEM([]byte(a.CertificateAuthority)); ok {
			tlsConfig.RootCAs = certPool
		}
		// If parsing fails, we'll fall back to system certificates
	}

	return tlsConfig
}
