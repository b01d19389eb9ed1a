// Package output provides the sinks normalized capture events are appended
// to.
//
// Buffer keeps events in memory for a consumer to drain. Writer encodes them
// as newline-delimited JSON onto an io.Writer, typically a capture file
// opened with capture.CreateFile.
//
// Both are safe for concurrent use and preserve append order. Neither applies
// backpressure: Append never blocks beyond its own lock.
package output
