package config

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

const testParentID = "0123456789abcdef"
const testTraceID = "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4"

func parse(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	return ParseArgs(args, "test", nil, io.Discard)
}

func TestParseArgs_BasicCommand(t *testing.T) {
	cfg, err := parse(t, "normalize", "producer1.ndjson")

	require.NoError(t, err)
	assert.Equal(t, CommandNormalize, cfg.Command)
	assert.Equal(t, []string{"producer1.ndjson"}, cfg.Inputs)
	assert.Equal(t, "-", cfg.Output)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.TraceID, "trace ID should be empty when not provided (SDK will auto-generate)")
	assert.Empty(t, cfg.CustomAttributes)
	assert.Empty(t, cfg.MetricsListen)
}

func TestParseArgs_DefaultCommand(t *testing.T) {
	cfg, err := parse(t, "a.ndjson", "b.ndjson.zst")

	require.NoError(t, err)
	assert.Equal(t, CommandNormalize, cfg.Command)
	assert.Equal(t, []string{"a.ndjson", "b.ndjson.zst"}, cfg.Inputs)
	assert.Equal(t, uint64(1), cfg.ProducerID(0))
	assert.Equal(t, uint64(2), cfg.ProducerID(1))
}

func TestParseArgs_Flags(t *testing.T) {
	cfg, err := parse(t, "normalize",
		"-o", "out.ndjson.zst",
		"--trace-id", testTraceID,
		"-p", testParentID,
		"--metrics.listen", ":9464",
		"--log.level", "debug",
		"in.ndjson")

	require.NoError(t, err)
	assert.Equal(t, "out.ndjson.zst", cfg.Output)
	assert.Equal(t, testTraceID, cfg.TraceID)
	assert.Equal(t, testParentID, cfg.ParentID)
	assert.Equal(t, ":9464", cfg.MetricsListen)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseArgs_TraceIDAsExpression(t *testing.T) {
	traceIDExpr := `env["TRACE_ID"]`
	cfg, err := parse(t, "normalize", "-t", traceIDExpr, "in.ndjson")

	require.NoError(t, err)
	assert.Equal(t, traceIDExpr, cfg.TraceID)
}

func TestParseArgs_InvalidLogLevel(t *testing.T) {
	_, err := parse(t, "--log.level", "chatty", "normalize", "in.ndjson")
	assert.Error(t, err)
}

func TestParseArgs_MissingInput(t *testing.T) {
	_, err := parse(t, "normalize")
	assert.Error(t, err)
}

func TestParseArgs_EnvironmentDefaults(t *testing.T) {
	t.Setenv("CAPTURE_OUTPUT", "/tmp/normalized.ndjson")
	t.Setenv("CAPTURE_LOG_LEVEL", "warn")

	defaults, err := ParseDefaults()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/normalized.ndjson", defaults.Output)
	assert.Empty(t, defaults.MetricsListen)

	cfg, err := ParseArgs([]string{"in.ndjson"}, "test", defaults, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/normalized.ndjson", cfg.Output)
	assert.Equal(t, "warn", cfg.LogLevel)

	// Flags still win over the environment.
	cfg, err = ParseArgs([]string{"-o", "x.ndjson", "in.ndjson"}, "test", defaults, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "x.ndjson", cfg.Output)
}

func TestParseArgs_MultipleCustomAttributes(t *testing.T) {
	cfg, err := parse(t, "normalize",
		"-a", `producers=producers`,
		"--attribute", `callstacks=interned["callstack"]`,
		"in.ndjson")

	require.NoError(t, err)
	require.Len(t, cfg.CustomAttributes, 2)
	assert.Equal(t, CustomAttribute{Name: "producers", Expression: "producers"}, cfg.CustomAttributes[0])
	assert.Equal(t, CustomAttribute{Name: "callstacks", Expression: `interned["callstack"]`}, cfg.CustomAttributes[1])
}

func TestParseCustomAttribute(t *testing.T) {
	tests := []struct {
		in      string
		want    CustomAttribute
		wantErr bool
	}{
		{in: "foo=bar", want: CustomAttribute{Name: "foo", Expression: "bar"}},
		{in: `check=session_id=="x"`, want: CustomAttribute{Name: "check", Expression: `session_id=="x"`}},
		{in: " spaced =1", want: CustomAttribute{Name: "spaced", Expression: "1"}},
		{in: "noequals", wantErr: true},
		{in: "=expr", wantErr: true},
		{in: "name=", wantErr: true},
		{in: "name=  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCustomAttribute(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgs_CustomAttributeInvalidFormat(t *testing.T) {
	_, err := parse(t, "normalize", "-a", "invalid", "in.ndjson")
	assert.Error(t, err)
}

func TestOTELConfig(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	t.Setenv("OTEL_SDK_DISABLED", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment=ci, team = profiling,broken")

	cfg, err := ParseOTELConfig()
	require.NoError(t, err)
	assert.Equal(t, "capture-normalizer", cfg.ServiceName)
	assert.True(t, cfg.Enabled())
	assert.Equal(t, "collector:4318", cfg.GetEndpoint())
	assert.Equal(t, []attribute.KeyValue{
		attribute.String("deployment.environment", "ci"),
		attribute.String("team", "profiling"),
	}, cfg.ParseResourceAttributes())

	cfg.TracesEndpoint = "traces:4318"
	assert.Equal(t, "traces:4318", cfg.GetEndpoint())

	cfg.SDKDisabled = true
	assert.False(t, cfg.Enabled())
}

func TestOTELConfig_Disabled(t *testing.T) {
	cfg := &OTELConfig{}
	assert.False(t, cfg.Enabled())
	assert.Equal(t, "localhost:4318", cfg.GetEndpoint())
	assert.Nil(t, cfg.ParseResourceAttributes())
}
