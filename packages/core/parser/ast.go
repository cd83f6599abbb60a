package parser

import "strconv"

// Expr is one argument expression inside a call signature. Each node keeps
// its exact source text: reference resolution compares and rewrites
// argument text without evaluating it.
type Expr interface {
	// Source returns the expression exactly as written at the call site.
	Source() string
}

// Literal is a constant value: a quoted string, a number, or any bare text
// that is neither a variable reference nor a nested call.
type Literal struct {
	Value any
	Text  string
}

func (l *Literal) Source() string { return l.Text }

// VariableRef is a $name reference, resolved against bindings at
// evaluation time.
type VariableRef struct {
	Name string
	Text string
}

func (v *VariableRef) Source() string { return v.Text }

// FunctionCall is a nested name(...) expression.
type FunctionCall struct {
	Meta *FunctionMeta
	Text string
}

func (f *FunctionCall) Source() string { return f.Text }

// FunctionMeta is the parsed form of a call signature.
type FunctionMeta struct {
	Name       string
	Args       []Expr
	Kwargs     map[string]Expr
	KwargOrder []string
}

// ArgSources returns the raw text of every positional argument, in order.
func (m *FunctionMeta) ArgSources() []string {
	out := make([]string, len(m.Args))
	for i, a := range m.Args {
		out[i] = a.Source()
	}
	return out
}

// SyntaxError reports a malformed call signature.
type SyntaxError struct {
	Input   string
	Pos     int
	Message string
}

func (e *SyntaxError) Error() string {
	return "invalid call signature " + strconv.Quote(e.Input) +
		" at offset " + strconv.Itoa(e.Pos) + ": " + e.Message
}
