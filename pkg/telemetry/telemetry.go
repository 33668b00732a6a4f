// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

// Package telemetry wires up OpenTelemetry tracing for the relay: exporter
// selection, sampling, propagation, and the flush hook the server runs on
// shutdown.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// flushTimeout bounds how long shutdown waits for pending spans.
const flushTimeout = 5 * time.Second

// Exporter names accepted by Options.Exporter.
const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// Options configures the tracer provider installed by Init.
type Options struct {
	// Enabled turns tracing on. When false Init installs a no-op provider
	// and returns a no-op shutdown.
	Enabled bool

	// ServiceName becomes the service.name resource attribute. Empty
	// defaults to "mailgate".
	ServiceName string

	// ServiceVersion becomes the service.version resource attribute.
	ServiceVersion string

	// Exporter picks where spans go: ExporterOTLP (the default),
	// ExporterStdout for local debugging, or ExporterNone to trace
	// without exporting.
	Exporter string

	// Endpoint is the OTLP collector address as host:port. Only read for
	// the otlp exporter.
	Endpoint string

	// Insecure turns off TLS on the OTLP gRPC connection.
	Insecure bool

	// SamplingRate is the fraction of traces to sample. Values outside
	// [0, 1] are clamped to 1.
	SamplingRate float64

	// Logger receives initialization diagnostics. Nil means silent.
	Logger *zap.SugaredLogger
}

// ShutdownFunc flushes pending spans and stops the tracer provider.
type ShutdownFunc func(ctx context.Context) error

var noopShutdown ShutdownFunc = func(context.Context) error { return nil }

// Init installs the global tracer provider and the W3C trace-context and
// baggage propagators. It returns the provider, for creating named
// tracers, and the shutdown hook the caller must run on exit.
func Init(ctx context.Context, opts Options) (trace.TracerProvider, ShutdownFunc, error) {
	if !opts.Enabled {
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return tp, noopShutdown, nil
	}

	if opts.ServiceName == "" {
		opts.ServiceName = "mailgate"
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	sampling := opts.SamplingRate
	if sampling < 0 || sampling > 1 {
		log.Warnw("Sampling rate outside [0,1], sampling everything", "provided", sampling)
		sampling = 1
	}

	res, err := buildResource(opts.ServiceName, opts.ServiceVersion)
	if err != nil {
		return nil, nil, err
	}

	exporter, err := newExporter(ctx, opts, log)
	if err != nil {
		return nil, nil, err
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampling))),
	}
	if exporter != nil {
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}
	tp := sdktrace.NewTracerProvider(tpOpts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	// Export failures and other SDK errors land in the structured log
	// instead of the default stderr handler.
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		log.Warnw("OpenTelemetry internal error", "error", err)
	}))

	log.Infow("Tracing initialized",
		"serviceName", opts.ServiceName,
		"exporter", exporterName(opts.Exporter),
		"samplingRate", sampling,
	)

	shutdown := func(ctx context.Context) error {
		flushCtx, cancel := context.WithTimeout(ctx, flushTimeout)
		defer cancel()
		return tp.Shutdown(flushCtx)
	}
	return tp, shutdown, nil
}

// buildResource merges the service identity into the SDK defaults.
// NewSchemaless sidesteps schema URL conflicts with resource.Default().
func buildResource(name, version string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", name),
			attribute.String("service.version", version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OTel resource: %w", err)
	}
	return res, nil
}

func exporterName(v string) string {
	if v == "" {
		return ExporterOTLP
	}
	return v
}

// newExporter builds the span exporter selected by opts.Exporter. A nil
// exporter with nil error means spans are created but never exported.
func newExporter(ctx context.Context, opts Options, log *zap.SugaredLogger) (sdktrace.SpanExporter, error) {
	switch opts.Exporter {
	case ExporterOTLP, "":
		grpcOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(opts.Endpoint)}
		if opts.Insecure {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
		}
		exporter, err := otlptracegrpc.New(ctx, grpcOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating OTLP gRPC exporter: %w", err)
		}
		log.Infow("OTLP trace exporter ready", "endpoint", opts.Endpoint, "insecure", opts.Insecure)
		return exporter, nil

	case ExporterStdout:
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("creating stdout exporter: %w", err)
		}
		return exporter, nil

	case ExporterNone:
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown trace exporter %q: supported values are otlp, stdout, none", opts.Exporter)
	}
}
