// Package eventprocessor normalizes the events of a capture session.
//
// Producers refer to repeated values (callstacks, strings) by ids they choose
// themselves. The processor rewrites these ids into one global id space
// shared by all producers of the session, and replaces inline values with
// references to interned ones:
//
//	┌──────────────┐  ┌──────────────┐
//	│  producer 1  │  │  producer 2  │   local ids
//	└──────┬───────┘  └──────┬───────┘
//	       │                 │
//	       ▼                 ▼
//	┌─────────────────────────────────────────┐
//	│   eventprocessor.Processor              │
//	│   - announcements → translator.Register │
//	│   - references    → translator.Resolve  │
//	│   - inline values → intern.Pool         │
//	│   - everything else passes through      │
//	└─────────────────┬───────────────────────┘
//	                  │  global ids
//	                  ▼
//	┌─────────────────────────────────────────┐
//	│   Sink (output.Buffer, output.Writer)   │
//	└─────────────────────────────────────────┘
//
// A value is forwarded at most once per session, immediately before the first
// event that refers to it. A producer announcing a value that is already
// known gets its local id mapped to the existing global id and nothing is
// forwarded.
//
// Protocol violations panic with a *capture.ProtocolError; see Process.
package eventprocessor
