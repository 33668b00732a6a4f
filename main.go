package main

import (
	"context"
	stdlog "log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/telekom/mailgate/pkg/api"
	"github.com/telekom/mailgate/pkg/cli"
	"github.com/telekom/mailgate/pkg/config"
	"github.com/telekom/mailgate/pkg/mail"
	"github.com/telekom/mailgate/pkg/ratelimit"
	"github.com/telekom/mailgate/pkg/relay"
	"github.com/telekom/mailgate/pkg/render"
	"github.com/telekom/mailgate/pkg/telemetry"
	"github.com/telekom/mailgate/pkg/version"
)

func main() {
	cliConfig := cli.Parse()

	zl := setupLogger(cliConfig.Debug)
	log := zl.Sugar()
	log.With("version", version.Version).Info("Starting mailgate")

	cfg, err := config.Load(cliConfig.ConfigPath)
	if err != nil {
		log.Fatalf("Error loading mailgate config: %v", err)
	}
	applyOverrides(&cfg, cliConfig)

	if cliConfig.Debug {
		cliConfig.Print(log)
		log.Infof("%#v", cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, shutdownTracing, err := telemetry.Init(ctx, telemetry.Options{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceVersion: version.Version,
		Exporter:       cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SamplingRate:   cfg.Telemetry.SamplingRate,
		Logger:         log,
	})
	if err != nil {
		log.Fatalf("Error initializing tracing: %v", err)
	}

	senders, err := buildSenders(ctx, cfg, cliConfig.DryRun, log)
	if err != nil {
		log.Fatalf("Error building mail transports: %v", err)
	}

	templates, err := render.NewStore(cfg.Templates.Dir, log)
	if err != nil {
		log.Fatalf("Error loading templates: %v", err)
	}

	service := relay.NewService(cfg, senders, templates, tp, log)
	server := api.NewServer(zl, cfg, cliConfig.Debug)

	controllers := []api.APIController{
		relay.NewStatusController(service),
	}
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.FromConfig(cfg.RateLimit)
		defer limiter.Stop()
		controllers = append(controllers, relay.NewRelayController(service, log, limiter.Middleware()))
		log.Infow("Rate limiting enabled", "rate", cfg.RateLimit.Rate, "burst", cfg.RateLimit.Burst)
	} else {
		controllers = append(controllers, relay.NewRelayController(service, log))
	}

	if err := server.RegisterAll(controllers); err != nil {
		log.Fatalf("Error registering mailgate controllers: %v", err)
	}

	if err := server.Listen(ctx, cfg.Server.GetShutdownTimeout()); err != nil {
		log.Errorw("Server terminated with error", "error", err)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Warnw("Error flushing traces during shutdown", "error", err)
	}
}

// applyOverrides lets command line flags win over the config file for the
// settings operators change per environment.
func applyOverrides(cfg *config.Config, cliConfig *cli.Config) {
	if cliConfig.ListenAddress != "" {
		cfg.Server.ListenAddress = cliConfig.ListenAddress
	}
	if cliConfig.TemplatesDir != "" {
		cfg.Templates.Dir = cliConfig.TemplatesDir
	}
	if cliConfig.ShutdownTimeout != "" {
		cfg.Server.ShutdownTimeout = cliConfig.ShutdownTimeout
	}
}

// buildSenders constructs one transport per enabled account. Disabled accounts
// are skipped on purpose: their endpoints answer with a configuration error
// instead of failing the whole startup.
func buildSenders(ctx context.Context, cfg config.Config, dryRun bool, log *zap.SugaredLogger) (map[string]mail.Sender, error) {
	senders := make(map[string]mail.Sender, len(cfg.Accounts))
	for _, account := range cfg.Accounts {
		if account.Disabled {
			log.Warnw("Account disabled", "account", account.Name, "reason", account.DisabledReason)
			continue
		}
		if dryRun {
			senders[account.Name] = mail.NewLogSender(account, log)
			continue
		}
		sender, err := mail.NewSenderFromAccount(ctx, account, log)
		if err != nil {
			return nil, err
		}
		senders[account.Name] = sender
		log.Infow("Mail transport ready", "account", account.Name, "provider", account.Provider)
	}
	return senders, nil
}

func setupLogger(debug bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	// Disable automatic stacktraces for non-fatal levels to avoid noisy traces in WARN/INFO logs
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339))
	}
	cfg.EncoderConfig.TimeKey = "ts"
	logger, err := cfg.Build()
	if err != nil {
		stdlog.Fatalf("failed to set up logger: %v", err)
	}
	return logger
}
