package output

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"

	"github.com/apirunner/apirunner/packages/core/registry"
)

// formatValue formats a value for display, summarizing composites and
// truncating long scalars.
func formatValue(v any, maxLen int) string {
	switch val := v.(type) {
	case []any:
		return fmt.Sprintf("[array with %d items]", len(val))
	case map[string]any:
		return fmt.Sprintf("{object with %d keys}", len(val))
	}
	str := fmt.Sprintf("%v", v)
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// FormatTestset renders one resolved testset: the merged config, then
// every testcase in file order.
func (f *ConsoleFormatter) FormatTestset(ts *registry.Testset) {
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	path, _ := ts.Config["path"].(string)
	fmt.Fprintf(f.writer, "\n%s\n", bold(path))

	if name, ok := ts.Config["name"].(string); ok && name != "" {
		fmt.Fprintf(f.writer, "  %s %s\n", cyan("config:"), name)
	}
	if f.verbose {
		f.printFields(ts.Config, "    ", "path", "name")
	}

	for i, tc := range ts.Testcases {
		name := testcaseName(tc, i)
		fmt.Fprintf(f.writer, "  %s %s\n", green("-"), name)
		if f.verbose {
			f.printFields(tc, "      ", "name")
		}
	}
}

// FormatSummary prints the closing testset and testcase tally.
func (f *ConsoleFormatter) FormatSummary(testsets []*registry.Testset) {
	total := 0
	for _, ts := range testsets {
		total += len(ts.Testcases)
	}
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "\n%s %d testset(s), %d testcase(s)\n", bold("Resolved:"), len(testsets), total)
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("apirunner"), version)
}

func (f *ConsoleFormatter) printFields(m map[string]any, indent string, skip ...string) {
	keys := make([]string, 0, len(m))
outer:
	for k := range m {
		for _, s := range skip {
			if k == s {
				continue outer
			}
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(f.writer, "%s%s: %s\n", indent, k, formatValue(m[k], 100))
	}
}

func testcaseName(tc map[string]any, index int) string {
	if name, ok := tc["name"].(string); ok && name != "" {
		return name
	}
	return fmt.Sprintf("testcase %d", index+1)
}
