package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// functionPattern matches ${name(...)} call groups embedded in strings.
	// The inner group is fed back through ParseFunction.
	functionPattern = regexp.MustCompile(`\$\{(\w+\([$\w.\-/_ =,'"]*\))\}`)

	// variablePattern matches bare $name references.
	variablePattern = regexp.MustCompile(`\$(\w+)`)
)

// ExtractFunctions returns every ${func(...)} call group in content, in
// order of appearance, without the surrounding ${}.
//
//	"/api/${add(1, 2)}?_t=${get_timestamp()}" => ["add(1, 2)", "get_timestamp()"]
func ExtractFunctions(content string) []string {
	matches := functionPattern.FindAllStringSubmatch(content, -1)
	if matches == nil {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m[1]
	}
	return out
}

// ExtractVariables returns every $name reference in content, in order of
// appearance.
//
//	"/$var_1/$var_2/var3" => ["var_1", "var_2"]
func ExtractVariables(content string) []string {
	matches := variablePattern.FindAllStringSubmatch(content, -1)
	if matches == nil {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m[1]
	}
	return out
}

// ParseFunction parses a call signature of the form
// name(arg1, arg2, key=val) into a FunctionMeta. Whitespace around the
// name, arguments, and keywords is ignored. Positional arguments must
// precede keyword arguments.
func ParseFunction(s string) (*FunctionMeta, error) {
	input := s
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, &SyntaxError{Input: input, Message: "empty call signature"}
	}

	i := 0
	for i < len(s) && isIdentChar(s[i]) {
		i++
	}
	name := s[:i]
	if name == "" {
		return nil, &SyntaxError{Input: input, Message: "empty function name"}
	}

	j := i
	for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
		j++
	}
	if j >= len(s) || s[j] != '(' {
		return nil, &SyntaxError{Input: input, Pos: j, Message: "expected '('"}
	}

	end, err := matchParen(input, s, j)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(s[end+1:]) != "" {
		return nil, &SyntaxError{Input: input, Pos: end + 1, Message: "unexpected text after ')'"}
	}

	meta := &FunctionMeta{
		Name:   name,
		Kwargs: make(map[string]Expr),
	}

	parts, err := splitArgs(input, s[j+1:end], j+1)
	if err != nil {
		return nil, err
	}

	sawKwarg := false
	for _, part := range parts {
		key, value, isKwarg := splitKwarg(part.text)
		if isKwarg {
			if !isIdentifier(key) {
				return nil, &SyntaxError{Input: input, Pos: part.pos, Message: "invalid keyword name " + strconv.Quote(key)}
			}
			expr, err := parseExpr(input, value, part.pos)
			if err != nil {
				return nil, err
			}
			if _, dup := meta.Kwargs[key]; !dup {
				meta.KwargOrder = append(meta.KwargOrder, key)
			}
			meta.Kwargs[key] = expr
			sawKwarg = true
			continue
		}
		if sawKwarg {
			return nil, &SyntaxError{Input: input, Pos: part.pos, Message: "positional argument after keyword argument"}
		}
		expr, err := parseExpr(input, part.text, part.pos)
		if err != nil {
			return nil, err
		}
		meta.Args = append(meta.Args, expr)
	}

	return meta, nil
}

type argPart struct {
	text string
	pos  int
}

// matchParen returns the index of the ')' closing the '(' at open.
func matchParen(input, s string, open int) (int, error) {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, &SyntaxError{Input: input, Pos: open, Message: "unbalanced parentheses"}
}

// splitArgs splits an argument list on top-level commas, respecting
// nested parentheses and quotes.
func splitArgs(input, inner string, offset int) ([]argPart, error) {
	if strings.TrimSpace(inner) == "" {
		return nil, nil
	}

	var parts []argPart
	depth := 0
	var quote byte
	start := 0
	flush := func(end int) error {
		text := strings.TrimSpace(inner[start:end])
		if text == "" {
			return &SyntaxError{Input: input, Pos: offset + start, Message: "empty argument"}
		}
		parts = append(parts, argPart{text: text, pos: offset + start})
		return nil
	}

	for i := 0; i < len(inner); i++ {
		ch := inner[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, &SyntaxError{Input: input, Pos: offset + i, Message: "unbalanced parentheses"}
			}
		case ',':
			if depth == 0 {
				if err := flush(i); err != nil {
					return nil, err
				}
				start = i + 1
			}
		}
	}
	if depth != 0 || quote != 0 {
		return nil, &SyntaxError{Input: input, Pos: offset, Message: "unbalanced parentheses"}
	}
	if err := flush(len(inner)); err != nil {
		return nil, err
	}
	return parts, nil
}

// splitKwarg splits "key=value" at the first top-level '='. Expressions
// like $a and nested calls never contain a top-level '=' at depth zero
// outside quotes.
func splitKwarg(s string) (key, value string, ok bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '(':
			depth++
		case ')':
			depth--
		case '=':
			if depth == 0 {
				return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
			}
		}
	}
	return "", "", false
}

// parseExpr classifies one argument: $name reference, nested call,
// quoted string, numeric literal, or bare text.
func parseExpr(input, text string, pos int) (Expr, error) {
	if text == "" {
		return nil, &SyntaxError{Input: input, Pos: pos, Message: "empty expression"}
	}

	if text[0] == '$' && len(text) > 1 && isIdentifier(text[1:]) {
		return &VariableRef{Name: text[1:], Text: text}, nil
	}

	if isCallExpr(text) {
		meta, err := ParseFunction(text)
		if err != nil {
			return nil, err
		}
		return &FunctionCall{Meta: meta, Text: text}, nil
	}

	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') && text[len(text)-1] == text[0] {
		return &Literal{Value: text[1 : len(text)-1], Text: text}, nil
	}

	if v, err := strconv.Atoi(text); err == nil {
		return &Literal{Value: v, Text: text}, nil
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return &Literal{Value: v, Text: text}, nil
	}

	return &Literal{Value: text, Text: text}, nil
}

// isCallExpr reports whether text has the shape name(...) with the final
// ')' closing the '(' that follows the name.
func isCallExpr(text string) bool {
	i := 0
	for i < len(text) && isIdentChar(text[i]) {
		i++
	}
	if i == 0 || i >= len(text) || text[i] != '(' {
		return false
	}
	return text[len(text)-1] == ')'
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return true
}

func isIdentChar(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9'
}
