package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/telekom/mailgate/pkg/mgctl/client"
	"github.com/telekom/mailgate/pkg/version"
)

func buildClient(rt *runtimeState) (*client.Client, error) {
	// A server override bypasses config and context resolution entirely
	if rt.serverOverride != "" {
		options := []client.Option{
			client.WithServer(rt.serverOverride),
			client.WithUserAgent(userAgent()),
		}
		options = append(options, timeoutOption(rt)...)
		options = append(options, client.WithTLSConfig("", false))
		options = append(options, verboseOption(rt)...)
		return client.New(options...)
	}

	if err := rt.EnsureConfigLoaded(); err != nil {
		return nil, err
	}
	ctxCfg, err := rt.ResolveContext()
	if err != nil {
		return nil, err
	}
	if ctxCfg.Server == "" {
		return nil, errors.New("server is required")
	}

	options := []client.Option{
		client.WithServer(ctxCfg.Server),
		client.WithUserAgent(userAgent()),
	}
	options = append(options, timeoutOption(rt)...)
	// TLS config is applied after timeout so the timeout carries over to the
	// rebuilt http client
	options = append(options, client.WithTLSConfig(ctxCfg.CAFile, ctxCfg.InsecureSkipTLSVerify))
	options = append(options, verboseOption(rt)...)
	return client.New(options...)
}

func timeoutOption(rt *runtimeState) []client.Option {
	if rt.cfg == nil || rt.cfg.Settings.Timeout == "" {
		return nil
	}
	timeout, err := time.ParseDuration(rt.cfg.Settings.Timeout)
	if err != nil {
		return nil
	}
	return []client.Option{client.WithTimeout(timeout)}
}

// verboseOption logs to stderr to avoid corrupting JSON output on stdout.
func verboseOption(rt *runtimeState) []client.Option {
	if !rt.verbose {
		return nil
	}
	return []client.Option{client.WithVerbose(func(format string, args ...any) {
		_, _ = fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	})}
}

func userAgent() string {
	return "mgctl/" + version.Version
}
