package attributes

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Environment is the data expressions are evaluated against.
type Environment struct {
	Env       map[string]string
	Inputs    []string
	SessionID string
	Events    map[string]int
	Forwarded map[string]int
	Interned  map[string]int
	Producers int
}

func (e *Environment) vars() map[string]interface{} {
	return map[string]interface{}{
		"env":        e.Env,
		"inputs":     e.Inputs,
		"session_id": e.SessionID,
		"events":     e.Events,
		"forwarded":  e.Forwarded,
		"interned":   e.Interned,
		"producers":  e.Producers,
	}
}

// compile type-checks exprStr against the shape of Environment.
func compile(exprStr string) (*vm.Program, error) {
	return expr.Compile(exprStr, expr.Env((&Environment{}).vars()))
}
