package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apirunner/apirunner/packages/core/errs"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "testcase.yml", `
- config:
    name: demo
- test:
    name: step one
`)

	content, err := LoadFile(path)
	require.NoError(t, err)

	items, ok := content.([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	first, ok := items[0].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, first, "config")
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "data.json", `{"name": "demo", "count": 3}`)

	content, err := LoadFile(path)
	require.NoError(t, err)

	m, ok := content.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "demo", m["name"])
}

func TestLoadFile_CSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "account.csv", "username,password\ntest1,111111\ntest2,222222\n")

	content, err := LoadFile(path)
	require.NoError(t, err)

	rows, ok := content.([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{"username": "test1", "password": "111111"}, rows[0])
	assert.Equal(t, map[string]any{"username": "test2", "password": "222222"}, rows[1])
}

func TestLoadFile_EmptyContent(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"empty yaml", "empty.yml", ""},
		{"empty yaml list", "list.yml", "[]"},
		{"empty json object", "obj.json", "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			_, err := LoadFile(path)
			assert.ErrorIs(t, err, errs.ErrFileFormat)
		})
	}
}

func TestLoadFile_ScalarContent(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scalar.json", `"just a string"`)
	_, err := LoadFile(path)
	assert.ErrorIs(t, err, errs.ErrFileFormat)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yml"))
	assert.ErrorIs(t, err, errs.ErrFileNotFound)
}

func TestLoadFile_UnknownExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.txt", "hello")

	content, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []any{}, content)
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yml", "- test: {}")
	writeFile(t, dir, "b.json", "[]")
	writeFile(t, dir, "ignore.txt", "x")
	writeFile(t, dir, "sub/c.yaml", "- test: {}")

	recursive := ListFiles(dir, true)
	require.Len(t, recursive, 3)
	for _, f := range recursive {
		assert.True(t, isTestFileExt(f), "unexpected file %s", f)
	}

	flat := ListFiles(dir, false)
	assert.Len(t, flat, 2)
}

func TestListFiles_MissingRoot(t *testing.T) {
	assert.Empty(t, ListFiles(filepath.Join(t.TempDir(), "absent"), true))
}

func TestValidateAPIFile(t *testing.T) {
	valid := []any{
		map[string]any{"api": map[string]any{"def": "api_login($u, $p)", "request": map[string]any{}}},
	}
	assert.NoError(t, ValidateAPIFile(valid))

	missingDef := []any{
		map[string]any{"api": map[string]any{"request": map[string]any{}}},
	}
	assert.ErrorIs(t, ValidateAPIFile(missingDef), errs.ErrFileFormat)

	wrongKey := []any{
		map[string]any{"test": map[string]any{"def": "x()"}},
	}
	assert.ErrorIs(t, ValidateAPIFile(wrongKey), errs.ErrFileFormat)
}

func TestValidateTestFile(t *testing.T) {
	valid := []any{
		map[string]any{"config": map[string]any{"name": "demo"}},
		map[string]any{"test": map[string]any{"name": "step"}},
	}
	assert.NoError(t, ValidateTestFile(valid))

	multiKey := []any{
		map[string]any{"config": map[string]any{}, "test": map[string]any{}},
	}
	assert.ErrorIs(t, ValidateTestFile(multiKey), errs.ErrFileFormat)

	scalarBlock := []any{
		map[string]any{"test": "not a mapping"},
	}
	assert.ErrorIs(t, ValidateTestFile(scalarBlock), errs.ErrFileFormat)
}
