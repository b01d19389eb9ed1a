// Package eventstream reads raw producer events from capture files and feeds
// them to a capture session, one stream per producer connection.
package eventstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"

	"github.com/mrzor/capture-normalizer/internal/capture"
)

// Session consumes the events of all streams.
type Session interface {
	Process(producerID uint64, ev capture.ProducerEvent) error
	AddIssue(producerID uint64, issue string)
}

// Source is one producer connection. ProducerID is used for envelopes that
// carry no producer id.
type Source struct {
	Name       string
	ProducerID uint64
	Reader     io.Reader
}

// Stream reads events from a source and dispatches them to a session.
type Stream struct {
	source  Source
	decoder *capture.Decoder
	session Session
	logger  log.Logger
	metrics *Metrics

	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates a Stream for source. metrics may be nil.
func New(source Source, session Session, logger log.Logger, metrics *Metrics) *Stream {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Stream{
		source:  source,
		decoder: capture.NewDecoder(source.Reader),
		session: session,
		logger:  log.With(logger, "source", source.Name, "producer", source.ProducerID),
		metrics: metrics,
		stopCh:  make(chan struct{}),
	}
}

// Stop makes Run return before reading the next event.
func (s *Stream) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Run reads events until the source is exhausted, the context is cancelled,
// Stop is called or the session refuses an event. Undecodable lines are
// logged, counted and skipped.
func (s *Stream) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		default:
		}

		producerID, ev, err := s.decoder.DecodeProducer()
		if err != nil {
			if errors.Is(err, io.EOF) {
				level.Debug(s.logger).Log("msg", "end of stream", "lines", s.decoder.Line())
				return nil
			}
			if errors.Is(err, capture.ErrUnknownKind) || errors.Is(err, capture.ErrMalformed) {
				s.skip(err)
				continue
			}
			return fmt.Errorf("reading %s: %w", s.source.Name, err)
		}
		if producerID == 0 {
			producerID = s.source.ProducerID
		}

		s.metrics.EventsRead.WithLabelValues(s.source.Name).Inc()
		if err := s.session.Process(producerID, ev); err != nil {
			return fmt.Errorf("processing %s line %d: %w", s.source.Name, s.decoder.Line(), err)
		}
	}
}

func (s *Stream) skip(err error) {
	level.Warn(s.logger).Log("msg", "skipping undecodable event", "line", s.decoder.Line(), "err", err)
	s.metrics.DecodeErrors.WithLabelValues(s.source.Name).Inc()
	s.session.AddIssue(s.source.ProducerID, fmt.Sprintf("%s: %v", s.source.Name, err))
}

// Run streams every source concurrently into session. The first stream to
// fail cancels the others, and its error is returned.
func Run(ctx context.Context, session Session, logger log.Logger, metrics *Metrics, sources ...Source) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		stream := New(src, session, logger, metrics)
		g.Go(func() error {
			return stream.Run(ctx)
		})
	}
	return g.Wait()
}
