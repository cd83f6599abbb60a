package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/apirunner/apirunner/packages/core/registry"
)

type JSONFormatter struct {
	writer io.Writer
	indent bool
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
		indent: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func JSONCompact() JSONOption {
	return func(f *JSONFormatter) {
		f.indent = false
	}
}

type jsonTestset struct {
	Config    map[string]any   `json:"config"`
	Testcases []map[string]any `json:"testcases"`
}

// WriteTestsets emits the resolved testsets as a JSON document.
func (f *JSONFormatter) WriteTestsets(testsets []*registry.Testset) error {
	doc := make([]jsonTestset, 0, len(testsets))
	for _, ts := range testsets {
		doc = append(doc, jsonTestset{Config: ts.Config, Testcases: ts.Testcases})
	}

	enc := json.NewEncoder(f.writer)
	if f.indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(doc)
}
