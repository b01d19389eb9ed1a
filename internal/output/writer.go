package output

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/mrzor/capture-normalizer/internal/capture"
)

// Writer is a sink encoding events onto an io.Writer.
//
// Append cannot report failures. The first write error is logged and kept;
// later events are dropped and the error is returned by Flush.
type Writer struct {
	logger log.Logger

	mu      sync.Mutex
	buf     *bufio.Writer
	enc     *capture.Encoder
	written int
	dropped int
	err     error
}

// NewWriter returns a sink writing to w. Output is buffered until Flush.
func NewWriter(w io.Writer, logger log.Logger) *Writer {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	buf := bufio.NewWriterSize(w, 256<<10)
	return &Writer{
		logger: logger,
		buf:    buf,
		enc:    capture.NewEncoder(buf),
	}
}

// Append encodes ev.
func (w *Writer) Append(ev capture.ClientEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.err != nil {
		w.dropped++
		return
	}
	if err := w.enc.EncodeClient(ev); err != nil {
		w.err = err
		w.dropped++
		level.Error(w.logger).Log("msg", "failed to write event, dropping the rest of the capture", "err", err)
		return
	}
	w.written++
}

// Flush writes buffered events to the underlying writer. It returns the
// first error seen by Append or the flush itself.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.err != nil {
		return fmt.Errorf("writing events (%d dropped): %w", w.dropped, w.err)
	}
	if err := w.buf.Flush(); err != nil {
		w.err = err
		return fmt.Errorf("flushing events: %w", err)
	}
	return nil
}

// Written returns the number of events successfully encoded.
func (w *Writer) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}
