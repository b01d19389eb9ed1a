package attributes

import (
	"crypto/sha256"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDEvaluator handles evaluation and validation of trace ID expressions.
type TraceIDEvaluator struct {
	literal trace.TraceID
	program *vm.Program
}

// NewTraceIDEvaluator creates a new trace ID evaluator.
// If exprStr is empty, the evaluator yields a zero trace ID and the SDK
// generates a random one. A 32-char hex string is taken literally.
func NewTraceIDEvaluator(exprStr string) (*TraceIDEvaluator, error) {
	if exprStr == "" {
		return &TraceIDEvaluator{}, nil
	}
	if traceID, err := trace.TraceIDFromHex(exprStr); err == nil {
		return &TraceIDEvaluator{literal: traceID}, nil
	}
	program, err := compile(exprStr)
	if err != nil {
		return nil, fmt.Errorf("failed to compile trace-id expression: %w", err)
	}
	return &TraceIDEvaluator{program: program}, nil
}

// EvaluateAndValidate evaluates the trace-id expression and validates the result.
// Returns the trace ID and any warnings to attach to the span.
// A result that is not 32 hex chars is hashed with SHA-256.
func (e *TraceIDEvaluator) EvaluateAndValidate(env *Environment) (trace.TraceID, []attribute.KeyValue, error) {
	if e.program == nil {
		return e.literal, nil, nil
	}

	result, err := run(e.program, env)
	if err != nil {
		return trace.TraceID{}, nil, fmt.Errorf("failed to evaluate trace-id expression: %w", err)
	}

	if len(result) == 32 {
		if traceID, err := trace.TraceIDFromHex(result); err == nil {
			return traceID, nil, nil
		}
	}

	hash := sha256.Sum256([]byte(result))
	var traceID trace.TraceID
	copy(traceID[:], hash[:16])

	warnings := []attribute.KeyValue{
		attribute.String("_trace_id_expr_result", result),
		attribute.String("_trace_id_invalid_warning", fmt.Sprintf("Expression result %q is not a valid 32-char hex trace ID, used SHA-256 hash instead", result)),
	}
	return traceID, warnings, nil
}

// ParentIDEvaluator handles evaluation and validation of parent span ID expressions.
type ParentIDEvaluator struct {
	literal trace.SpanID
	program *vm.Program
}

// NewParentIDEvaluator creates a new parent ID evaluator.
// If exprStr is empty, the evaluator will return no parent ID (zero span ID).
// A 16-char hex string is taken literally.
func NewParentIDEvaluator(exprStr string) (*ParentIDEvaluator, error) {
	if exprStr == "" {
		return &ParentIDEvaluator{}, nil
	}
	if spanID, err := trace.SpanIDFromHex(exprStr); err == nil {
		return &ParentIDEvaluator{literal: spanID}, nil
	}
	program, err := compile(exprStr)
	if err != nil {
		return nil, fmt.Errorf("failed to compile parent-id expression: %w", err)
	}
	return &ParentIDEvaluator{program: program}, nil
}

// EvaluateAndValidate evaluates the parent-id expression and validates the result.
// Returns the parent span ID and any warnings to attach to the span.
// An invalid result yields a zero span ID (no parent).
func (e *ParentIDEvaluator) EvaluateAndValidate(env *Environment) (trace.SpanID, []attribute.KeyValue, error) {
	if e.program == nil {
		return e.literal, nil, nil
	}

	result, err := run(e.program, env)
	if err != nil {
		return trace.SpanID{}, nil, fmt.Errorf("failed to evaluate parent-id expression: %w", err)
	}

	if len(result) == 16 {
		if spanID, err := trace.SpanIDFromHex(result); err == nil {
			return spanID, nil, nil
		}
	}

	warnings := []attribute.KeyValue{
		attribute.String("_parent_id_expr_result", result),
		attribute.String("_parent_id_invalid_warning", fmt.Sprintf("Expression result %q is not a valid 16-char hex span ID, using null parent ID instead", result)),
	}
	return trace.SpanID{}, warnings, nil
}

func run(program *vm.Program, env *Environment) (string, error) {
	if env == nil {
		env = &Environment{}
	}
	output, err := expr.Run(program, env.vars())
	if err != nil {
		return "", err
	}
	return fmt.Sprint(output), nil
}
