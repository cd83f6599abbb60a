package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFunction_PositionalAndKeyword(t *testing.T) {
	meta, err := ParseFunction("f(a, b=c)")
	require.NoError(t, err)

	assert.Equal(t, "f", meta.Name)
	require.Len(t, meta.Args, 1)
	assert.Equal(t, "a", meta.Args[0].Source())

	require.Contains(t, meta.Kwargs, "b")
	lit, ok := meta.Kwargs["b"].(*Literal)
	require.True(t, ok)
	assert.Equal(t, "c", lit.Value)
	assert.Equal(t, []string{"b"}, meta.KwargOrder)
}

func TestParseFunction_NoArgs(t *testing.T) {
	meta, err := ParseFunction("get_timestamp()")
	require.NoError(t, err)
	assert.Equal(t, "get_timestamp", meta.Name)
	assert.Empty(t, meta.Args)
	assert.Empty(t, meta.Kwargs)
}

func TestParseFunction_ArgumentKinds(t *testing.T) {
	meta, err := ParseFunction(`mixed($uid, 42, 1.5, "hello world", bare, inner($x))`)
	require.NoError(t, err)
	require.Len(t, meta.Args, 6)

	ref, ok := meta.Args[0].(*VariableRef)
	require.True(t, ok)
	assert.Equal(t, "uid", ref.Name)
	assert.Equal(t, "$uid", ref.Source())

	assert.Equal(t, 42, meta.Args[1].(*Literal).Value)
	assert.Equal(t, 1.5, meta.Args[2].(*Literal).Value)
	assert.Equal(t, "hello world", meta.Args[3].(*Literal).Value)
	assert.Equal(t, "bare", meta.Args[4].(*Literal).Value)

	call, ok := meta.Args[5].(*FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "inner", call.Meta.Name)
	require.Len(t, call.Meta.Args, 1)
	assert.Equal(t, "$x", call.Meta.Args[0].Source())
}

func TestParseFunction_WhitespaceInsensitive(t *testing.T) {
	meta, err := ParseFunction("  add ( 1 ,  2 , key = val )  ")
	require.NoError(t, err)
	assert.Equal(t, "add", meta.Name)
	assert.Equal(t, []string{"1", "2"}, meta.ArgSources())
	assert.Equal(t, "val", meta.Kwargs["key"].(*Literal).Value)
}

func TestParseFunction_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"empty name", "(1, 2)"},
		{"missing open paren", "add 1, 2"},
		{"unbalanced open", "add(1, 2"},
		{"unbalanced close", "add(1, 2))"},
		{"nested unbalanced", "add(inner(1, 2)"},
		{"trailing garbage", "add(1)x"},
		{"empty argument", "add(1, , 2)"},
		{"positional after keyword", "add(a=1, 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFunction(tt.input)
			require.Error(t, err)
			var syntaxErr *SyntaxError
			assert.ErrorAs(t, err, &syntaxErr)
		})
	}
}

func TestExtractFunctions(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"${func(5)}", []string{"func(5)"}},
		{"${func(a=1, b=2)}", []string{"func(a=1, b=2)"}},
		{"/api/1000?_t=${get_timestamp()}", []string{"get_timestamp()"}},
		{"/api/${add(1, 2)}", []string{"add(1, 2)"}},
		{"/api/${add(1, 2)}?_t=${get_timestamp()}", []string{"add(1, 2)", "get_timestamp()"}},
		{"no calls here", nil},
		{"$bare_variable", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractFunctions(tt.input))
		})
	}
}

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"$var_1", []string{"var_1"}},
		{"$var_1#XYZ", []string{"var_1"}},
		{"/$var_1/$var_2/var3", []string{"var_1", "var_2"}},
		{"${func($var_1, $var_2, xyz)}", []string{"var_1", "var_2"}},
		{"no variables", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractVariables(tt.input))
		})
	}
}
