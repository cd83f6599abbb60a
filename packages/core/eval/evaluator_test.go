package eval

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apirunner/apirunner/packages/builtin"
	"github.com/apirunner/apirunner/packages/core/errs"
)

func addFunc(args []any, _ map[string]any) (any, error) {
	sum := 0
	for _, a := range args {
		n, ok := a.(int)
		if !ok {
			return nil, fmt.Errorf("add: %v is not an int", a)
		}
		sum += n
	}
	return sum, nil
}

func TestEvalContent_WholeStringFunctionKeepsNativeType(t *testing.T) {
	e := New("")
	e.BindFunction("add", addFunc)

	v, err := e.EvalContent("${add(1, 2)}")
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestEvalContent_EmbeddedFunctionIsStringified(t *testing.T) {
	e := New("")
	e.BindFunction("add", addFunc)

	v, err := e.EvalContent("/api/${add(1, 2)}/x")
	require.NoError(t, err)
	assert.Equal(t, "/api/3/x", v)
}

func TestEvalContent_WholeStringVariableKeepsNativeType(t *testing.T) {
	e := New("")
	e.SetVariables(map[string]any{
		"data": map[string]any{"name": "user", "password": "123456"},
		"uid":  1000,
	})

	v, err := e.EvalContent("$data")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "user", "password": "123456"}, v)

	v, err = e.EvalContent("$uid")
	require.NoError(t, err)
	assert.Equal(t, 1000, v)
}

func TestEvalContent_EmbeddedVariables(t *testing.T) {
	e := New("")
	e.SetVariables(map[string]any{"var_1": "abc", "var_2": "def"})

	v, err := e.EvalContent("/$var_1/$var_2/var3")
	require.NoError(t, err)
	assert.Equal(t, "/abc/def/var3", v)
}

func TestEvalContent_FunctionArgsResolveVariables(t *testing.T) {
	e := New("")
	e.BindFunction("add", addFunc)
	e.SetVariables(map[string]any{"a": 1, "b": 2})

	v, err := e.EvalContent("${add($a, $b)}")
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestEvalContent_NestedStructure(t *testing.T) {
	e := New("")
	e.BindFunction("add", addFunc)
	e.SetVariables(map[string]any{
		"uid":           1000,
		"authorization": "a83de0ff8d2e896dbd8efb81ba14e17d",
		"data":          map[string]any{"name": "user"},
	})

	content := map[string]any{
		"url":    "http://127.0.0.1:5000/api/users/$uid/${add(1, 1)}",
		"method": "POST",
		"headers": map[string]any{
			"authorization": "$authorization",
			"sum":           "${add(1, 2)}",
		},
		"body":  "$data",
		"count": 7,
	}

	v, err := e.EvalContent(content)
	require.NoError(t, err)

	m := v.(map[string]any)
	assert.Equal(t, "http://127.0.0.1:5000/api/users/1000/2", m["url"])
	assert.Equal(t, "POST", m["method"])
	assert.Equal(t, 7, m["count"])
	headers := m["headers"].(map[string]any)
	assert.Equal(t, "a83de0ff8d2e896dbd8efb81ba14e17d", headers["authorization"])
	assert.Equal(t, 3, headers["sum"])
	assert.Equal(t, map[string]any{"name": "user"}, m["body"])
}

func TestEvalContent_FunctionResultNotRescanned(t *testing.T) {
	e := New("")
	e.BindFunction("raw", func(_ []any, _ map[string]any) (any, error) {
		return "$not_a_binding", nil
	})

	v, err := e.EvalContent("value: ${raw()}")
	require.NoError(t, err)
	assert.Equal(t, "value: $not_a_binding", v)
}

func TestEvalContent_ScalarsPassThrough(t *testing.T) {
	e := New("")

	for _, in := range []any{nil, true, 42, 1.5} {
		v, err := e.EvalContent(in)
		require.NoError(t, err)
		assert.Equal(t, in, v)
	}
}

func TestEvalContent_UnresolvedVariable(t *testing.T) {
	e := New("")

	_, err := e.EvalContent("$missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrParams)
	assert.Contains(t, err.Error(), "missing is not defined in bind variables")
}

func TestEvalContent_UnresolvedFunction(t *testing.T) {
	e := New("")

	_, err := e.EvalContent("${nope(1)}")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrParams)
	assert.Contains(t, err.Error(), "nope is not defined in bind functions")
}

func TestEvalContent_BoundFunctionShadowsBuiltin(t *testing.T) {
	e := New("")
	e.BindFunction("uuid", func(_ []any, _ map[string]any) (any, error) {
		return "not-random-at-all", nil
	})

	v, err := e.EvalContent("${uuid()}")
	require.NoError(t, err)
	assert.Equal(t, "not-random-at-all", v)
}

func TestEvalContent_BuiltinBeforeSource(t *testing.T) {
	e := New("")
	e.SetSource(stubSource{
		funcs: map[string]builtin.Func{
			"timestamp": func(_ []any, _ map[string]any) (any, error) { return 0, nil },
		},
	})

	v, err := e.EvalContent("${timestamp()}")
	require.NoError(t, err)
	assert.NotEqual(t, 0, v)
}

func TestEvalContent_SourceFallback(t *testing.T) {
	e := New("/tmp/case.yml")
	e.SetSource(stubSource{
		vars: map[string]any{"token": "from-source"},
		funcs: map[string]builtin.Func{
			"greet": func(_ []any, _ map[string]any) (any, error) { return "hi", nil },
		},
	})

	v, err := e.EvalContent("$token")
	require.NoError(t, err)
	assert.Equal(t, "from-source", v)

	v, err = e.EvalContent("${greet()}")
	require.NoError(t, err)
	assert.Equal(t, "hi", v)
}

type stubSource struct {
	vars  map[string]any
	funcs map[string]builtin.Func
}

func (s stubSource) LookupVariable(_, name string) (any, error) {
	if v, ok := s.vars[name]; ok {
		return v, nil
	}
	return nil, errs.ErrVariableNotFound
}

func (s stubSource) LookupFunction(_, name string) (builtin.Func, error) {
	if fn, ok := s.funcs[name]; ok {
		return fn, nil
	}
	return nil, errs.ErrFunctionNotFound
}

func writeCSV(t *testing.T, dir string) string {
	t.Helper()
	csvPath := filepath.Join(dir, "account.csv")
	content := "username,password\ntest1,111111\ntest2,222222\ntest3,333333\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o644))
	return csvPath
}

func TestParameterize_Sequential(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir)

	e := New(filepath.Join(dir, "testcase.yml"))

	v, err := e.EvalContent("${parameterize(account.csv)}")
	require.NoError(t, err)

	rows := v.([]any)
	require.Len(t, rows, 3)
	assert.Equal(t, map[string]any{"username": "test1", "password": "111111"}, rows[0])
	assert.Equal(t, map[string]any{"username": "test3", "password": "333333"}, rows[2])
}

func TestParameterize_PAlias(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir)

	e := New(filepath.Join(dir, "testcase.yml"))

	v, err := e.EvalContent("${P(account.csv)}")
	require.NoError(t, err)
	assert.Len(t, v.([]any), 3)
}

func TestParameterize_RandomIsSeedable(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir)

	run := func(seed int64) []any {
		e := New(filepath.Join(dir, "testcase.yml"))
		e.SetRand(rand.New(rand.NewSource(seed)))
		v, err := e.EvalContent("${parameterize(account.csv, Random)}")
		require.NoError(t, err)
		return v.([]any)
	}

	first := run(7)
	second := run(7)
	assert.Equal(t, first, second, "same seed must give the same order")
	require.Len(t, first, 3)
}

func TestParameterize_MissingFile(t *testing.T) {
	e := New(filepath.Join(t.TempDir(), "testcase.yml"))

	_, err := e.EvalContent("${parameterize(absent.csv)}")
	assert.ErrorIs(t, err, errs.ErrFileNotFound)
}
