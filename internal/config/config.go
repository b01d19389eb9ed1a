// Package config parses the command line and environment of capture-normalizer.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/alecthomas/kingpin.v2"
)

// CommandNormalize is the full name of the normalize command.
const CommandNormalize = "normalize"

// CustomAttribute represents a user-defined session span attribute.
type CustomAttribute struct {
	Name       string
	Expression string
}

// Defaults holds flag defaults read from CAPTURE_* environment variables.
type Defaults struct {
	Output        string `env:"CAPTURE_OUTPUT" envDefault:"-"`
	MetricsListen string `env:"CAPTURE_METRICS_LISTEN" envDefault:""`
	LogLevel      string `env:"CAPTURE_LOG_LEVEL" envDefault:"info"`
}

// ParseDefaults reads flag defaults from the environment.
func ParseDefaults() (*Defaults, error) {
	var d Defaults
	if err := env.Parse(&d); err != nil {
		return nil, fmt.Errorf("failed to parse CAPTURE_* defaults: %w", err)
	}
	return &d, nil
}

// Config holds the parsed command-line configuration.
type Config struct {
	// Command is the full name of the selected command.
	Command string
	// Inputs are raw capture files, one per producer connection. "-" is stdin.
	Inputs []string
	// Output is the normalized capture file. "-" is stdout.
	Output string
	// TraceID and ParentID are literal ids or expressions for the session span.
	TraceID  string
	ParentID string
	// CustomAttributes are evaluated against the session summary at close.
	CustomAttributes []CustomAttribute
	// MetricsListen is the address of the /metrics endpoint, empty to disable.
	MetricsListen string
	LogLevel      string
}

// ProducerID returns the producer id assigned to the input at index i when
// its envelopes carry none.
func (c *Config) ProducerID(i int) uint64 {
	return uint64(i) + 1
}

// NewApp builds the kingpin application, binding flags into cfg.
func NewApp(name, versionInfo string, defaults *Defaults, cfg *Config, usage io.Writer) *kingpin.Application {
	app := kingpin.New(name, "Normalizes multi-producer capture streams into one globally interned event stream.").UsageWriter(usage)
	app.Version(versionInfo)
	app.HelpFlag.Short('h')
	app.Flag("log.level", "Log level: debug, info, warn, error.").Default(defaults.LogLevel).
		EnumVar(&cfg.LogLevel, "debug", "info", "warn", "error")

	normalizeCmd := app.Command(CommandNormalize, "Normalize raw producer capture files.").Default()
	normalizeCmd.Flag("output", "Normalized output file, .zst to compress, - for stdout.").Short('o').
		Default(defaults.Output).StringVar(&cfg.Output)
	normalizeCmd.Flag("trace-id", "Trace ID of the session span: 32 hex chars or an expression.").Short('t').
		StringVar(&cfg.TraceID)
	normalizeCmd.Flag("parent-id", "Parent span ID: 16 hex chars or an expression.").Short('p').
		StringVar(&cfg.ParentID)
	normalizeCmd.Flag("attribute", "Custom session attribute as name=expression, repeatable.").Short('a').
		SetValue(&customAttributes{attrs: &cfg.CustomAttributes})
	normalizeCmd.Flag("metrics.listen", "Address to serve /metrics on, empty to disable.").
		Default(defaults.MetricsListen).StringVar(&cfg.MetricsListen)
	normalizeCmd.Arg("input", "Raw capture files, one per producer connection, .zst to decompress.").
		Required().StringsVar(&cfg.Inputs)

	return app
}

// ParseArgs parses command-line arguments (without the program name).
func ParseArgs(args []string, versionInfo string, defaults *Defaults, usage io.Writer) (*Config, error) {
	if defaults == nil {
		defaults = &Defaults{Output: "-", LogLevel: "info"}
	}
	cfg := &Config{}
	app := NewApp("capture-normalizer", versionInfo, defaults, cfg, usage)
	command, err := app.Parse(args)
	if err != nil {
		return nil, err
	}
	cfg.Command = command
	return cfg, nil
}

// ParseCustomAttribute parses a name=expression pair. The expression may
// itself contain '='.
func ParseCustomAttribute(s string) (CustomAttribute, error) {
	name, expression, ok := strings.Cut(s, "=")
	if !ok {
		return CustomAttribute{}, fmt.Errorf("invalid attribute %q: expected name=expression", s)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return CustomAttribute{}, fmt.Errorf("invalid attribute %q: empty name", s)
	}
	if strings.TrimSpace(expression) == "" {
		return CustomAttribute{}, fmt.Errorf("invalid attribute %q: empty expression", s)
	}
	return CustomAttribute{Name: name, Expression: expression}, nil
}

// customAttributes is a repeatable kingpin flag value.
type customAttributes struct {
	attrs *[]CustomAttribute
}

func (c *customAttributes) Set(s string) error {
	attr, err := ParseCustomAttribute(s)
	if err != nil {
		return err
	}
	*c.attrs = append(*c.attrs, attr)
	return nil
}

func (c *customAttributes) String() string {
	pairs := make([]string, len(*c.attrs))
	for i, a := range *c.attrs {
		pairs[i] = a.Name + "=" + a.Expression
	}
	return strings.Join(pairs, ",")
}

// IsCumulative makes the flag repeatable.
func (c *customAttributes) IsCumulative() bool {
	return true
}
