package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apirunner/apirunner/packages/core/registry"
	"github.com/apirunner/apirunner/packages/output"
)

var (
	resolveJSONFlag       bool
	resolveOutputFileFlag string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <file|directory>...",
	Short: "Resolve testcase files into fully assembled testsets",
	Long: `Resolve testcase files: load the project's api and suite
definitions, expand every reference, and print the assembled testsets.

Examples:
  apirunner resolve tests/testcases/smoke.yml
  apirunner resolve tests/testcases/
  apirunner resolve tests/testcases/ --json > resolved.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: resolveCommand,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSONFlag, "json", false, "Emit resolved testsets as JSON")
	resolveCmd.Flags().StringVar(&resolveOutputFileFlag, "output-file", "", "Write output to file (default: stdout)")
}

func resolveCommand(cmd *cobra.Command, args []string) error {
	outWriter := cmd.OutOrStdout()
	if resolveOutputFileFlag != "" {
		f, err := os.Create(resolveOutputFileFlag)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		outWriter = f
	}

	proj, err := loadProject()
	if err != nil {
		return err
	}

	var testsets []*registry.Testset
	for _, arg := range args {
		loaded, err := proj.registry.LoadTestcases(arg)
		if err != nil {
			return err
		}
		testsets = append(testsets, loaded...)
	}

	for _, ts := range testsets {
		if err := proj.expandParameters(ts); err != nil {
			return err
		}
	}

	if resolveJSONFlag {
		formatter := output.NewJSONFormatter(output.JSONWithWriter(outWriter))
		return formatter.WriteTestsets(testsets)
	}

	formatter := output.NewConsoleFormatter(
		output.WithWriter(outWriter),
		output.WithVerbose(verboseFlag),
		output.WithNoColor(noColorFlag),
	)
	formatter.FormatHeader(version)
	for _, ts := range testsets {
		formatter.FormatTestset(ts)
	}
	formatter.FormatSummary(testsets)
	return nil
}
