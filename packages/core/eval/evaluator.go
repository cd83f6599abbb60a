package eval

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/apirunner/apirunner/packages/builtin"
	"github.com/apirunner/apirunner/packages/core/errs"
	"github.com/apirunner/apirunner/packages/core/loader"
	"github.com/apirunner/apirunner/packages/core/parser"
)

// Source resolves names this evaluator has no explicit binding for,
// scoped by the directory of the file under evaluation.
type Source interface {
	LookupVariable(contextPath, name string) (any, error)
	LookupFunction(contextPath, name string) (builtin.Func, error)
}

// Evaluator substitutes variables and function calls in test data.
// Bindings and the file path are fixed per evaluation context; one
// evaluator serves one testcase file.
type Evaluator struct {
	variables map[string]any
	functions map[string]builtin.Func
	builtins  *builtin.Registry
	source    Source
	path      string
	rand      *rand.Rand
}

// New returns an evaluator for content originating from path. The path's
// directory anchors parameterize() csv lookups and external binding
// lookups; it may be empty when neither is needed.
func New(path string) *Evaluator {
	return &Evaluator{
		variables: make(map[string]any),
		functions: make(map[string]builtin.Func),
		builtins:  builtin.NewRegistry(),
		path:      path,
	}
}

// SetVariables merges vars into the bound-variable map.
func (e *Evaluator) SetVariables(vars map[string]any) {
	for k, v := range vars {
		e.variables[k] = v
	}
}

// BindFunction binds fn to name, shadowing built-ins of the same name.
func (e *Evaluator) BindFunction(name string, fn builtin.Func) {
	e.functions[name] = fn
}

// SetSource installs the external binding source consulted after bound
// names and built-ins.
func (e *Evaluator) SetSource(s Source) {
	e.source = s
}

// SetRand injects the random source used by random-mode parametrization,
// making shuffles reproducible. Without it a time-seeded source is used.
func (e *Evaluator) SetRand(r *rand.Rand) {
	e.rand = r
}

// EvalContent evaluates content recursively. Sequences and mappings are
// rebuilt with every element evaluated (mapping keys included); strings
// go through function and variable substitution; all other scalars pass
// through unchanged.
func (e *Evaluator) EvalContent(content any) (any, error) {
	switch c := content.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]any, len(c))
		for i, item := range c {
			v, err := e.EvalContent(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(c))
		for k, v := range c {
			ek, err := e.EvalContent(k)
			if err != nil {
				return nil, err
			}
			ev, err := e.EvalContent(v)
			if err != nil {
				return nil, err
			}
			out[toString(ek)] = ev
		}
		return out, nil
	case string:
		return e.evalString(strings.TrimSpace(c))
	default:
		return content, nil
	}
}

// evalString resolves ${func(...)} groups first, then $name references.
// Variable names are collected before splicing so that function results
// are never re-scanned for further substitution.
func (e *Evaluator) evalString(s string) (any, error) {
	names := parser.ExtractVariables(s)

	current, err := e.evalStringFunctions(s)
	if err != nil {
		return nil, err
	}

	str, ok := current.(string)
	if !ok {
		// a whole-string function call already produced a native value
		return current, nil
	}
	return e.evalStringVariables(str, names)
}

func (e *Evaluator) evalStringFunctions(s string) (any, error) {
	calls := parser.ExtractFunctions(s)
	if len(calls) == 0 {
		return s, nil
	}

	current := any(s)
	for _, call := range calls {
		meta, err := parser.ParseFunction(call)
		if err != nil {
			return nil, err
		}

		value, err := e.callFunction(meta)
		if err != nil {
			return nil, err
		}

		str, ok := current.(string)
		if !ok {
			break
		}
		wrapped := "${" + call + "}"
		if wrapped == str {
			current = value
		} else {
			current = strings.Replace(str, wrapped, toString(value), 1)
		}
	}
	return current, nil
}

func (e *Evaluator) evalStringVariables(s string, names []string) (any, error) {
	current := any(s)
	for _, name := range names {
		str, ok := current.(string)
		if !ok {
			break
		}
		token := "$" + name
		if !strings.Contains(str, token) {
			// the reference was consumed as a function argument
			continue
		}

		value, err := e.lookupVariable(name)
		if err != nil {
			return nil, err
		}
		if token == str {
			current = value
		} else {
			current = strings.Replace(str, token, toString(value), 1)
		}
	}
	return current, nil
}

// callFunction evaluates a parsed call's arguments, then dispatches it.
func (e *Evaluator) callFunction(meta *parser.FunctionMeta) (any, error) {
	args := make([]any, len(meta.Args))
	for i, expr := range meta.Args {
		v, err := e.evalExpr(expr)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	var kwargs map[string]any
	if len(meta.Kwargs) > 0 {
		kwargs = make(map[string]any, len(meta.Kwargs))
		for k, expr := range meta.Kwargs {
			v, err := e.evalExpr(expr)
			if err != nil {
				return nil, err
			}
			kwargs[k] = v
		}
	}

	if meta.Name == "parameterize" || meta.Name == "P" {
		return e.parameterize(args, kwargs)
	}

	fn, err := e.lookupFunction(meta.Name)
	if err != nil {
		return nil, err
	}
	return fn(args, kwargs)
}

func (e *Evaluator) evalExpr(expr parser.Expr) (any, error) {
	switch x := expr.(type) {
	case *parser.Literal:
		// bare-word literals may still embed $name references
		if s, ok := x.Value.(string); ok {
			return e.EvalContent(s)
		}
		return x.Value, nil
	case *parser.VariableRef:
		return e.lookupVariable(x.Name)
	case *parser.FunctionCall:
		return e.callFunction(x.Meta)
	default:
		return nil, fmt.Errorf("%w: unknown expression %q", errs.ErrParams, expr.Source())
	}
}

func (e *Evaluator) lookupVariable(name string) (any, error) {
	if v, ok := e.variables[name]; ok {
		return v, nil
	}
	if e.source != nil {
		if v, err := e.source.LookupVariable(e.path, name); err == nil {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s is not defined in bind variables", errs.ErrParams, name)
}

func (e *Evaluator) lookupFunction(name string) (builtin.Func, error) {
	if fn, ok := e.functions[name]; ok {
		return fn, nil
	}
	if fn, ok := e.builtins.Lookup(name); ok {
		return fn, nil
	}
	if e.source != nil {
		if fn, err := e.source.LookupFunction(e.path, name); err == nil {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("%w: %s is not defined in bind functions", errs.ErrParams, name)
}

// parameterize loads a csv relative to the current file's directory and
// returns its rows, shuffled when fetch_method is "random".
func (e *Evaluator) parameterize(args []any, kwargs map[string]any) (any, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("%w: parameterize: missing csv name", errs.ErrParams)
	}
	name := toString(args[0])

	fetchMethod := "sequential"
	if len(args) >= 2 {
		fetchMethod = toString(args[1])
	}
	if v, ok := kwargs["fetch_method"]; ok {
		fetchMethod = toString(v)
	}

	path := filepath.Join(filepath.Dir(e.path), name)
	content, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	rows, ok := content.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: parameterize: %s is not a row list", errs.ErrParams, name)
	}

	if strings.EqualFold(fetchMethod, "random") {
		rnd := e.rand
		if rnd == nil {
			rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		shuffled := make([]any, len(rows))
		copy(shuffled, rows)
		rnd.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		return shuffled, nil
	}
	return rows, nil
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
