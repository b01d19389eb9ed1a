// Package session ties one capture session together: the processor owning the
// global id space, per-producer bookkeeping, the session span and the
// handling of fatal protocol violations.
package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/atomic"

	"github.com/mrzor/capture-normalizer/internal/attributes"
	"github.com/mrzor/capture-normalizer/internal/capture"
	"github.com/mrzor/capture-normalizer/internal/config"
	"github.com/mrzor/capture-normalizer/internal/eventprocessor"
	"github.com/mrzor/capture-normalizer/internal/producers"
)

// SpanName is the name of the span covering a capture session.
const SpanName = "capture.session"

// ErrAborted is returned by every Process call after a protocol violation.
var ErrAborted = errors.New("capture session aborted")

// Summary describes a closed session.
type Summary struct {
	SessionID string
	// Events counts received producer events by kind name.
	Events map[string]int
	// Forwarded counts events appended to the sink by kind name.
	Forwarded map[string]int
	// Interned is the number of distinct values per pool.
	Interned  map[string]int
	Producers []*producers.Stats
	Aborted   bool
}

// Session is safe for concurrent use by one goroutine per producer.
type Session struct {
	id        string
	inputs    []string
	logger    log.Logger
	span      trace.Span
	evaluator *attributes.Evaluator

	sink      *countingSink
	processor *eventprocessor.Processor
	producers *producers.Manager

	aborted      atomic.Bool
	cause        atomic.Error
	abortedTotal prometheus.Counter

	closeOnce sync.Once
	summary   Summary
}

// New starts a session writing to sink. logger, tracer and reg may be nil.
func New(cfg *config.Config, sink eventprocessor.Sink, logger log.Logger, tracer trace.Tracer, reg prometheus.Registerer) (*Session, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}

	id := uuid.New()
	s := &Session{
		id:        id.String(),
		inputs:    cfg.Inputs,
		logger:    log.With(logger, "session", id.String()),
		sink:      newCountingSink(sink),
		producers: producers.NewManager(),
		abortedTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "capture_sessions_aborted_total",
			Help: "Total number of capture sessions aborted by a protocol violation",
		}),
	}
	s.processor = eventprocessor.NewProcessor(s.sink, s.logger, eventprocessor.NewMetrics(reg), s.producers)

	evaluator, err := attributes.NewEvaluator(cfg.CustomAttributes, s.logger)
	if err != nil {
		return nil, err
	}
	s.evaluator = evaluator

	ctx, warnings, err := s.parentContext(cfg, id)
	if err != nil {
		return nil, err
	}
	_, s.span = tracer.Start(ctx, SpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("capture.session.id", s.id),
			attribute.StringSlice("capture.session.inputs", cfg.Inputs),
		),
	)
	s.span.SetAttributes(warnings...)

	level.Info(s.logger).Log("msg", "capture session started", "inputs", len(cfg.Inputs))
	return s, nil
}

// parentContext places the session span in the configured trace. Without a
// parent span id the span hangs off a synthetic remote parent derived from
// the session id so the requested trace id is kept.
func (s *Session) parentContext(cfg *config.Config, id uuid.UUID) (context.Context, []attribute.KeyValue, error) {
	ctx := context.Background()
	if cfg.TraceID == "" {
		return ctx, nil, nil
	}

	env := &attributes.Environment{
		Env:       environ(),
		Inputs:    cfg.Inputs,
		SessionID: s.id,
	}
	traceEval, err := attributes.NewTraceIDEvaluator(cfg.TraceID)
	if err != nil {
		return nil, nil, err
	}
	parentEval, err := attributes.NewParentIDEvaluator(cfg.ParentID)
	if err != nil {
		return nil, nil, err
	}

	traceID, warnings, err := traceEval.EvaluateAndValidate(env)
	if err != nil {
		return nil, nil, err
	}
	spanID, parentWarnings, err := parentEval.EvaluateAndValidate(env)
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, parentWarnings...)

	if !spanID.IsValid() {
		copy(spanID[:], id[:8])
	}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	return trace.ContextWithRemoteSpanContext(ctx, sc), warnings, nil
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Producers returns the per-producer bookkeeping of the session.
func (s *Session) Producers() *producers.Manager {
	return s.producers
}

// AddIssue records a problem with a producer's stream that did not abort the
// session, such as an undecodable line.
func (s *Session) AddIssue(producerID uint64, issue string) {
	s.producers.AddIssue(producerID, issue)
}

// Aborted reports whether a protocol violation ended the session.
func (s *Session) Aborted() bool {
	return s.aborted.Load()
}

// Err returns the violation that aborted the session, or nil.
func (s *Session) Err() error {
	return s.cause.Load()
}

// Process hands ev to the processor. A protocol violation aborts the session:
// it is returned wrapped in ErrAborted, and every later call returns
// ErrAborted without processing.
func (s *Session) Process(producerID uint64, ev capture.ProducerEvent) (err error) {
	if s.aborted.Load() {
		return ErrAborted
	}
	if ev != nil {
		s.producers.RecordEvent(producerID, ev.Kind())
		if w, ok := ev.(*capture.WarningEvent); ok {
			s.producers.AddIssue(producerID, w.Message)
		}
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		perr, ok := r.(*capture.ProtocolError)
		if !ok {
			panic(r)
		}
		s.abort(perr)
		err = fmt.Errorf("%w: %w", ErrAborted, perr)
	}()

	s.processor.Process(producerID, ev)
	return nil
}

func (s *Session) abort(perr *capture.ProtocolError) {
	if !s.aborted.CompareAndSwap(false, true) {
		return
	}
	s.cause.Store(perr)
	s.abortedTotal.Inc()
	s.producers.AddIssue(perr.ProducerID, perr.Error())

	level.Error(s.logger).Log(
		"msg", "aborting capture session",
		"producer", perr.ProducerID,
		"kind", perr.Kind,
		"local_id", perr.LocalID,
		"err", perr,
	)
	s.span.RecordError(perr)
	s.span.SetStatus(codes.Error, perr.Violation.String())
}

// Close ends the session span and returns the session summary. The error is
// non-nil when the session was aborted. Close is idempotent.
func (s *Session) Close() (Summary, error) {
	s.closeOnce.Do(s.close)
	if cause := s.Err(); cause != nil {
		return s.summary, fmt.Errorf("%w: %w", ErrAborted, cause)
	}
	return s.summary, nil
}

func (s *Session) close() {
	stats := s.producers.Snapshot()
	events := make(map[string]int)
	for _, st := range stats {
		for kind, n := range st.Events {
			events[kind.String()] += int(n)
		}
	}

	s.summary = Summary{
		SessionID: s.id,
		Events:    events,
		Forwarded: s.sink.counts(),
		Interned:  s.processor.Interned(),
		Producers: stats,
		Aborted:   s.Aborted(),
	}

	s.span.SetAttributes(summaryAttributes(s.summary)...)
	s.span.SetAttributes(s.evaluator.EvaluateCustomAttributes(&attributes.Environment{
		Env:       environ(),
		Inputs:    s.inputs,
		SessionID: s.id,
		Events:    s.summary.Events,
		Forwarded: s.summary.Forwarded,
		Interned:  s.summary.Interned,
		Producers: len(stats),
	})...)
	s.span.End()

	level.Info(s.logger).Log(
		"msg", "capture session closed",
		"producers", len(stats),
		"events", lo.Sum(lo.Values(s.summary.Events)),
		"forwarded", lo.Sum(lo.Values(s.summary.Forwarded)),
		"aborted", s.summary.Aborted,
	)
}

func summaryAttributes(sum Summary) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.Int("capture.producers", len(sum.Producers)),
		attribute.Int("capture.events.received", lo.Sum(lo.Values(sum.Events))),
		attribute.Int("capture.events.forwarded", lo.Sum(lo.Values(sum.Forwarded))),
		attribute.Bool("capture.aborted", sum.Aborted),
	}
	for _, pool := range slices.Sorted(maps.Keys(sum.Interned)) {
		attrs = append(attrs, attribute.Int("capture.interned."+pool, sum.Interned[pool]))
	}

	var issues int
	for _, st := range sum.Producers {
		for _, issue := range st.Issues {
			attrs = append(attrs, attribute.String(fmt.Sprintf("_tracing_warning_%d", issues), fmt.Sprintf("producer %d: %s", st.ProducerID, issue)))
			issues++
		}
	}
	return attrs
}

func environ() map[string]string {
	return lo.SliceToMap(os.Environ(), func(kv string) (string, string) {
		k, v, _ := strings.Cut(kv, "=")
		return k, v
	})
}
