package registry

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/apirunner/apirunner/packages/core/errs"
	"github.com/apirunner/apirunner/packages/core/parser"
)

// ResolveAPI expands an api reference call into a concrete block, with
// every declared parameter renamed to the call-site expression. When the
// call-site arguments match the declared parameters verbatim the stored
// definition is returned as-is and must be treated as read-only.
func (r *Registry) ResolveAPI(call string) (map[string]any, error) {
	meta, err := parser.ParseFunction(call)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	def, ok := r.apis[meta.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrAPINotFound, meta.Name)
	}

	mapping, err := argMapping(def.Meta, meta)
	if err != nil {
		return nil, err
	}
	if len(mapping) == 0 {
		return def.Content, nil
	}
	return substituteContent(def.Content, mapping).(map[string]any), nil
}

// ResolveSuite expands a suite reference call into a concrete suite,
// assembling the suite file on first use.
func (r *Registry) ResolveSuite(call string) (*SuiteDefinition, error) {
	meta, err := parser.ParseFunction(call)
	if err != nil {
		return nil, err
	}

	suite, err := r.assembleSuite(meta.Name)
	if err != nil {
		return nil, err
	}

	mapping, err := argMapping(suite.Meta, meta)
	if err != nil {
		return nil, err
	}
	if len(mapping) == 0 {
		return suite, nil
	}

	renamed := &SuiteDefinition{
		Meta:   suite.Meta,
		Config: substituteContent(suite.Config, mapping).(map[string]any),
	}
	renamed.Testcases = make([]map[string]any, len(suite.Testcases))
	for i, tc := range suite.Testcases {
		renamed.Testcases[i] = substituteContent(tc, mapping).(map[string]any)
	}
	return renamed, nil
}

// argMapping pairs declared parameters with call-site argument text and
// records a rename for each pair that differs. Call-site positional count
// must match the declaration exactly.
func argMapping(def, call *parser.FunctionMeta) (map[string]string, error) {
	defArgs := def.ArgSources()
	callArgs := call.ArgSources()
	if len(callArgs) != len(defArgs) {
		return nil, fmt.Errorf("%w: call args mismatch defined args: %s takes %d args, called with %d",
			errs.ErrParams, def.Name, len(defArgs), len(callArgs))
	}

	mapping := make(map[string]string)
	for i, defArg := range defArgs {
		if defArg == callArgs[i] {
			continue
		}
		mapping[strings.TrimPrefix(defArg, "$")] = callArgs[i]
	}
	return mapping, nil
}

// identTokenPattern matches $name as a maximal identifier run, so a
// rename of x never touches $xy.
var identTokenPattern = regexp.MustCompile(`\$(\w+)`)

// substituteContent textually rewrites every $name reference found in
// mapping throughout content. The rewrite is syntactic: the substituted
// text is evaluated later, not here. Unmatched structure is shared, not
// copied.
func substituteContent(content any, mapping map[string]string) any {
	switch c := content.(type) {
	case string:
		return identTokenPattern.ReplaceAllStringFunc(c, func(token string) string {
			if repl, ok := mapping[token[1:]]; ok {
				return repl
			}
			return token
		})
	case []any:
		out := make([]any, len(c))
		for i, item := range c {
			out[i] = substituteContent(item, mapping)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(c))
		for k, v := range c {
			out[substituteContent(k, mapping).(string)] = substituteContent(v, mapping)
		}
		return out
	default:
		return content
	}
}
