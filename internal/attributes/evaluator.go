package attributes

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mrzor/capture-normalizer/internal/config"
)

// Evaluator handles compilation and evaluation of custom attribute expressions.
type Evaluator struct {
	logger        log.Logger
	customAttrs   []config.CustomAttribute
	compiledExprs []*vm.Program
}

// NewEvaluator creates a new attribute evaluator.
// It pre-compiles all custom attribute expressions so that errors surface
// before the session starts.
func NewEvaluator(customAttrs []config.CustomAttribute, logger log.Logger) (*Evaluator, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	compiledExprs := make([]*vm.Program, len(customAttrs))
	for i, attr := range customAttrs {
		program, err := compile(attr.Expression)
		if err != nil {
			return nil, fmt.Errorf("failed to compile expression for attribute %q: %w", attr.Name, err)
		}
		compiledExprs[i] = program
	}

	return &Evaluator{
		logger:        logger,
		customAttrs:   customAttrs,
		compiledExprs: compiledExprs,
	}, nil
}

// EvaluateCustomAttributes evaluates every custom attribute against env.
// A failing expression is logged and skipped.
func (e *Evaluator) EvaluateCustomAttributes(env *Environment) []attribute.KeyValue {
	if len(e.customAttrs) == 0 || env == nil {
		return nil
	}

	vars := env.vars()
	var attrs []attribute.KeyValue
	for i, customAttr := range e.customAttrs {
		output, err := expr.Run(e.compiledExprs[i], vars)
		if err != nil {
			level.Warn(e.logger).Log("msg", "failed to evaluate custom attribute", "attribute", customAttr.Name, "err", err)
			continue
		}

		// Maps expand into one attribute per key, with dot notation.
		outputValue := reflect.ValueOf(output)
		if outputValue.Kind() != reflect.Map {
			attrs = append(attrs, toAttribute(customAttr.Name, output))
			continue
		}
		keys := outputValue.MapKeys()
		sort.Slice(keys, func(a, b int) bool {
			return fmt.Sprint(keys[a].Interface()) < fmt.Sprint(keys[b].Interface())
		})
		for _, key := range keys {
			attrName := customAttr.Name + "." + sanitizeAttributeName(fmt.Sprint(key.Interface()))
			attrs = append(attrs, toAttribute(attrName, outputValue.MapIndex(key).Interface()))
		}
	}

	return attrs
}

// toAttribute keeps scalar types and formats everything else with %v.
// A missing value becomes an empty string.
func toAttribute(name string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case nil:
		return attribute.String(name, "")
	case string:
		return attribute.String(name, v)
	case bool:
		return attribute.Bool(name, v)
	case int:
		return attribute.Int(name, v)
	case int64:
		return attribute.Int64(name, v)
	case uint64:
		//nolint:gosec // Counters stay far below 2^63
		return attribute.Int64(name, int64(v))
	case float64:
		return attribute.Float64(name, v)
	default:
		return attribute.String(name, fmt.Sprintf("%v", v))
	}
}

// sanitizeAttributeName replaces non-alphanumeric characters with underscores.
// This ensures attribute names are safe for OpenTelemetry.
func sanitizeAttributeName(name string) string {
	result := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			result[i] = c
		} else {
			result[i] = '_'
		}
	}
	return string(result)
}
