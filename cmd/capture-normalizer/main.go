// capture-normalizer merges raw capture files written by independent producers
// into one event stream whose callstacks, strings and tracepoints share a
// single id space.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/mrzor/capture-normalizer/internal/capture"
	"github.com/mrzor/capture-normalizer/internal/config"
	"github.com/mrzor/capture-normalizer/internal/eventprocessor"
	"github.com/mrzor/capture-normalizer/internal/eventstream"
	"github.com/mrzor/capture-normalizer/internal/otel"
	"github.com/mrzor/capture-normalizer/internal/output"
	"github.com/mrzor/capture-normalizer/internal/session"
)

const appName = "capture-normalizer"

func main() {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	if err := run(os.Args[1:], logger); err != nil {
		level.Error(logger).Log("msg", "capture-normalizer failed", "err", err)
		os.Exit(1)
	}
}

func levelOption(name string) level.Option {
	switch name {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

// setupOTEL initializes the OTEL provider when an endpoint is configured and
// returns a tracer and cleanup function.
func setupOTEL(logger log.Logger) (trace.Tracer, func(), error) {
	otelCfg, err := config.ParseOTELConfig()
	if err != nil {
		return nil, nil, err
	}
	if !otelCfg.Enabled() {
		level.Debug(logger).Log("msg", "no OTLP endpoint configured, session spans are not exported")
		return noop.NewTracerProvider().Tracer(appName), func() {}, nil
	}

	tp, err := otel.InitProvider(otelCfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize OTEL provider: %w", err)
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otel.ShutdownProvider(shutdownCtx, tp); err != nil {
			level.Warn(logger).Log("msg", "shutting down OTEL provider", "err", err)
		}
	}
	return tp.Tracer(appName), cleanup, nil
}

// setupMetrics serves reg on addr until cleanup is called.
func setupMetrics(addr string, reg *prometheus.Registry, logger log.Logger) func() {
	if addr == "" {
		return func() {}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		level.Info(logger).Log("msg", "serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			level.Error(logger).Log("msg", "metrics server failed", "err", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx) //nolint:errcheck // Best-effort shutdown at exit
	}
}

// openInputs opens every input file. On error, the files already opened are
// closed.
func openInputs(cfg *config.Config) ([]eventstream.Source, func() error, error) {
	var (
		sources []eventstream.Source
		closers []io.Closer
	)
	closeAll := func() error {
		var result *multierror.Error
		for _, c := range closers {
			if err := c.Close(); err != nil {
				result = multierror.Append(result, err)
			}
		}
		return result.ErrorOrNil()
	}

	for i, path := range cfg.Inputs {
		r, err := capture.OpenFile(path)
		if err != nil {
			_ = closeAll() //nolint:errcheck // Best-effort cleanup in error path
			return nil, nil, fmt.Errorf("input %s: %w", path, err)
		}
		closers = append(closers, r)
		sources = append(sources, eventstream.Source{
			Name:       path,
			ProducerID: cfg.ProducerID(i),
			Reader:     r,
		})
	}
	return sources, closeAll, nil
}

func run(args []string, logger log.Logger) (err error) {
	defaults, err := config.ParseDefaults()
	if err != nil {
		return err
	}
	cfg, err := config.ParseArgs(args, version.Print(appName), defaults, os.Stdout)
	if err != nil {
		return err
	}
	logger = level.NewFilter(logger, levelOption(cfg.LogLevel))
	level.Info(logger).Log("msg", "starting capture-normalizer", "version", version.Info(), "inputs", len(cfg.Inputs))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	stopMetrics := setupMetrics(cfg.MetricsListen, reg, logger)
	defer stopMetrics()

	tracer, cleanupOTEL, err := setupOTEL(logger)
	if err != nil {
		return err
	}
	defer cleanupOTEL()

	sources, closeInputs, err := openInputs(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeInputs(); cerr != nil {
			err = multierror.Append(err, fmt.Errorf("closing inputs: %w", cerr))
		}
	}()

	out, err := capture.CreateFile(cfg.Output)
	if err != nil {
		return err
	}
	writer := output.NewWriter(out, logger)

	sess, err := session.New(cfg, writer, logger, tracer, reg)
	if err != nil {
		_ = out.Close() //nolint:errcheck // Best-effort cleanup in error path
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var result *multierror.Error
	if err := eventstream.Run(ctx, sess, logger, eventstream.NewMetrics(reg), sources...); err != nil {
		result = multierror.Append(result, err)
	}
	summary, err := sess.Close()
	if err != nil && !errors.Is(result.ErrorOrNil(), session.ErrAborted) {
		result = multierror.Append(result, err)
	}
	if err := writer.Flush(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := out.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("closing output: %w", err))
	}

	level.Info(logger).Log(
		"msg", "normalization finished",
		"session", summary.SessionID,
		"written", writer.Written(),
		"interned_callstacks", summary.Interned[eventprocessor.PoolCallstack],
		"interned_strings", summary.Interned[eventprocessor.PoolString],
		"interned_tracepoints", summary.Interned[eventprocessor.PoolTracepoint],
	)
	return result.ErrorOrNil()
}
