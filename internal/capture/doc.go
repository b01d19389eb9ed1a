// Package capture defines the event model exchanged by the capture pipeline.
//
// Two closed sets of events exist:
//
//	producer ──ProducerEvent──▶ eventprocessor ──ClientEvent──▶ sink
//	(local ids)                                   (global ids)
//
// ProducerEvent is what an instrumentation source emits. Reference fields
// (callstack ids, interned string keys) are scoped to that producer.
//
// ClientEvent is what the capture client receives. Every reference field is
// a session-global id, and every value referenced by such an id has been
// announced earlier in the same stream by an Interned* event.
//
// Pass-through kinds (scheduling slices, thread names, API events, ...) are
// shared by both sets: the processor forwards the very same value, so the
// producer must not touch an event after handing it over.
//
// The package also carries the NDJSON wire codec used by capture files and
// streams, and zstd framing for files ending in ".zst".
package capture
