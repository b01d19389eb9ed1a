package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrzor/capture-normalizer/internal/capture"
	"github.com/mrzor/capture-normalizer/internal/session"
)

func writeInput(t *testing.T, dir, name string, events ...capture.ProducerEvent) string {
	t.Helper()
	path := filepath.Join(dir, name)
	w, err := capture.CreateFile(path)
	require.NoError(t, err)
	enc := capture.NewEncoder(w)
	for _, ev := range events {
		require.NoError(t, enc.EncodeProducer(0, ev))
	}
	require.NoError(t, w.Close())
	return path
}

func readOutput(t *testing.T, path string) []capture.ClientEvent {
	t.Helper()
	r, err := capture.OpenFile(path)
	require.NoError(t, err)
	defer r.Close()

	var events []capture.ClientEvent
	dec := capture.NewDecoder(r)
	for {
		ev, err := dec.DecodeClient()
		if err == io.EOF {
			return events
		}
		require.NoError(t, err)
		events = append(events, ev)
	}
}

func clearOTELEnv(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
}

func TestRun_NormalizesInputs(t *testing.T) {
	clearOTELEnv(t)
	dir := t.TempDir()
	stack := &capture.Callstack{PCs: []uint64{0x1000, 0x2000}, Type: capture.CallstackComplete}

	first := writeInput(t, dir, "producer-1.ndjson",
		&capture.InternedCallstack{Key: 4, Intern: stack},
		&capture.CallstackSample{Tid: 1, CallstackID: 4},
	)
	second := writeInput(t, dir, "producer-2.ndjson.zst",
		&capture.InternedCallstack{Key: 40, Intern: stack},
		&capture.CallstackSample{Tid: 2, CallstackID: 40},
	)
	out := filepath.Join(dir, "normalized.ndjson.zst")

	require.NoError(t, run([]string{"normalize", "-o", out, first, second}, log.NewNopLogger()))

	events := readOutput(t, out)
	var announcements, samples int
	for _, ev := range events {
		switch ev := ev.(type) {
		case *capture.InternedCallstack:
			announcements++
			assert.Equal(t, uint64(1), ev.Key)
		case *capture.CallstackSample:
			samples++
			assert.Equal(t, uint64(1), ev.CallstackID)
		}
	}
	assert.Equal(t, 1, announcements)
	assert.Equal(t, 2, samples)
}

func TestRun_ProtocolViolationFails(t *testing.T) {
	clearOTELEnv(t)
	dir := t.TempDir()
	in := writeInput(t, dir, "bad.ndjson", &capture.CallstackSample{CallstackID: 9})
	out := filepath.Join(dir, "out.ndjson")

	err := run([]string{"-o", out, in}, log.NewNopLogger())
	require.ErrorIs(t, err, session.ErrAborted)

	_, statErr := os.Stat(out)
	assert.NoError(t, statErr, "output is still flushed and closed")
}

func TestRun_MissingInput(t *testing.T) {
	clearOTELEnv(t)
	dir := t.TempDir()
	err := run([]string{"-o", filepath.Join(dir, "out.ndjson"), filepath.Join(dir, "nope.ndjson")}, log.NewNopLogger())
	assert.Error(t, err)
}

func TestLevelOption(t *testing.T) {
	for _, name := range []string{"debug", "info", "warn", "error", "bogus"} {
		assert.NotNil(t, levelOption(name), name)
	}
}
