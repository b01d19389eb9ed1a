package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/otel/attribute"
)

// OTELConfig holds OpenTelemetry configuration from environment variables
type OTELConfig struct {
	ServiceName        string `env:"OTEL_SERVICE_NAME" envDefault:"capture-normalizer"`
	ResourceAttributes string `env:"OTEL_RESOURCE_ATTRIBUTES" envDefault:""`
	ExporterEndpoint   string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	TracesEndpoint     string `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT" envDefault:""`
	SDKDisabled        bool   `env:"OTEL_SDK_DISABLED" envDefault:"false"`
}

// ParseOTELConfig parses OTEL configuration from environment variables
func ParseOTELConfig() (*OTELConfig, error) {
	var cfg OTELConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse OTEL config: %w", err)
	}
	return &cfg, nil
}

// Enabled reports whether spans should be exported: an endpoint is
// configured and the SDK is not disabled.
func (c *OTELConfig) Enabled() bool {
	return !c.SDKDisabled && (c.TracesEndpoint != "" || c.ExporterEndpoint != "")
}

// GetEndpoint returns the appropriate endpoint for traces
// Priority: OTEL_EXPORTER_OTLP_TRACES_ENDPOINT > OTEL_EXPORTER_OTLP_ENDPOINT > default
func (c *OTELConfig) GetEndpoint() string {
	if c.TracesEndpoint != "" {
		return c.TracesEndpoint
	}
	if c.ExporterEndpoint != "" {
		return c.ExporterEndpoint
	}
	return "localhost:4318"
}

// ParseResourceAttributes parses the OTEL_RESOURCE_ATTRIBUTES string
// Format: key1=value1,key2=value2
func (c *OTELConfig) ParseResourceAttributes() []attribute.KeyValue {
	if c.ResourceAttributes == "" {
		return nil
	}

	var attrs []attribute.KeyValue
	for _, pair := range strings.Split(c.ResourceAttributes, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		if key = strings.TrimSpace(key); key != "" {
			attrs = append(attrs, attribute.String(key, strings.TrimSpace(value)))
		}
	}
	return attrs
}
