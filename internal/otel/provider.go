// Package otel provides OpenTelemetry tracer provider initialization and management.
package otel

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/mrzor/capture-normalizer/internal/config"
)

const exportTimeout = 10 * time.Second

// logProxy reports the proxy settings the HTTP exporter will pick up.
func logProxy(logger log.Logger) {
	httpProxy := os.Getenv("HTTP_PROXY")
	if httpProxy == "" {
		httpProxy = os.Getenv("http_proxy")
	}
	httpsProxy := os.Getenv("HTTPS_PROXY")
	if httpsProxy == "" {
		httpsProxy = os.Getenv("https_proxy")
	}
	if httpProxy == "" && httpsProxy == "" {
		level.Debug(logger).Log("msg", "no proxy configured")
		return
	}
	level.Debug(logger).Log("msg", "proxy configuration", "http_proxy", httpProxy, "https_proxy", httpsProxy)
}

// exporterOptions builds the endpoint options. An endpoint carrying a scheme
// is used as a full URL; a bare host:port gets plain HTTP.
func exporterOptions(endpoint string) []otlptracehttp.Option {
	opts := []otlptracehttp.Option{otlptracehttp.WithTimeout(exportTimeout)}
	if strings.Contains(endpoint, "://") {
		return append(opts, otlptracehttp.WithEndpointURL(endpoint))
	}
	return append(opts, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
}

// InitProvider initializes the OpenTelemetry tracer provider exporting session
// spans over OTLP/HTTP.
//
// The HTTP client honors HTTP_PROXY, HTTPS_PROXY and NO_PROXY through the
// standard net/http transport.
func InitProvider(cfg *config.OTELConfig, logger log.Logger) (*sdktrace.TracerProvider, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	endpoint := cfg.GetEndpoint()
	level.Info(logger).Log(
		"msg", "configuring OTLP/HTTP exporter",
		"service", cfg.ServiceName,
		"endpoint", endpoint,
		"resource_attributes", cfg.ResourceAttributes,
	)
	logProxy(logger)

	exporter, err := otlptracehttp.New(ctx, exporterOptions(endpoint)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	resourceAttrs := []resource.Option{
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	}
	if customAttrs := cfg.ParseResourceAttributes(); len(customAttrs) > 0 {
		resourceAttrs = append(resourceAttrs, resource.WithAttributes(customAttrs...))
	}

	res, err := resource.New(ctx, resourceAttrs...)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

// ShutdownProvider gracefully shuts down the tracer provider, flushing any remaining spans.
func ShutdownProvider(ctx context.Context, tp *sdktrace.TracerProvider) error {
	if tp == nil {
		return nil
	}
	if err := tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	return nil
}
