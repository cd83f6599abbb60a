package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apirunner/apirunner/packages/core/registry"
)

func sampleTestsets() []*registry.Testset {
	return []*registry.Testset{
		{
			Config: map[string]any{"path": "tests/testcases/demo.yml", "name": "demo"},
			Testcases: []map[string]any{
				{"name": "create user", "request": map[string]any{"url": "/api/users/1001"}},
				{"request": map[string]any{"url": "/api/users/1001"}},
			},
		},
	}
}

func TestConsoleFormatter_FormatTestset(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	testsets := sampleTestsets()
	for _, ts := range testsets {
		f.FormatTestset(ts)
	}
	f.FormatSummary(testsets)

	out := buf.String()
	assert.Contains(t, out, "tests/testcases/demo.yml")
	assert.Contains(t, out, "config: demo")
	assert.Contains(t, out, "- create user")
	assert.Contains(t, out, "- testcase 2", "unnamed testcases get a positional name")
	assert.Contains(t, out, "1 testset(s), 2 testcase(s)")
}

func TestConsoleFormatter_VerboseShowsFields(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))

	f.FormatTestset(sampleTestsets()[0])

	assert.Contains(t, buf.String(), "request: {object with 1 keys}")
}

func TestJSONFormatter_WriteTestsets(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	require.NoError(t, f.WriteTestsets(sampleTestsets()))

	var doc []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc, 1)
	cfg := doc[0]["config"].(map[string]any)
	assert.Equal(t, "demo", cfg["name"])
	assert.Len(t, doc[0]["testcases"], 2)
}

func TestFormatValue_TruncatesLongScalars(t *testing.T) {
	long := make([]byte, 150)
	for i := range long {
		long[i] = 'x'
	}
	got := formatValue(string(long), 100)
	assert.Len(t, got, 103)
	assert.Equal(t, "...", got[100:])
}
