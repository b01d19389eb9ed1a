// Package attributes provides expression evaluation and validation for custom
// attributes, trace IDs, and parent span IDs of the capture session span.
//
// Expressions are evaluated against an Environment using the expr language:
//
//	env         map[string]string  process environment
//	inputs      []string           raw capture files
//	session_id  string             session UUID
//	events      map[string]int     events received, by kind
//	forwarded   map[string]int     events forwarded, by kind
//	interned    map[string]int     distinct values, by pool
//	producers   int                producers seen
//
// Trace and parent IDs are evaluated when the session starts, before any
// counter is set. Custom attributes are evaluated when it closes.
//
// Three evaluators:
//   - Evaluator: Evaluates custom attribute expressions
//   - TraceIDEvaluator: Evaluates and validates trace ID expressions (32 hex chars)
//   - ParentIDEvaluator: Evaluates and validates parent span ID expressions (16 hex chars)
//
// Invalid trace IDs are automatically hashed with SHA-256 to produce valid IDs.
// Invalid parent IDs result in a null parent (zero span ID).
package attributes
