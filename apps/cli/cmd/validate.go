package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/apirunner/apirunner/packages/core/loader"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file|directory]...",
	Short: "Check definition and testcase files for format errors",
	Long: `Validate the project's api and suite definitions, plus any given
testcase files, without resolving references into testsets.

Examples:
  apirunner validate
  apirunner validate tests/testcases/smoke.yml
  apirunner validate tests/testcases/`,
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	// loading the project validates every api and suite file
	proj, err := loadProject()
	if err != nil {
		return err
	}

	files, err := collectFiles(proj.root, args)
	if err != nil {
		return err
	}

	hasErrors := false
	for _, file := range files {
		if _, err := proj.registry.LoadTestFile(file); err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
		}
	}

	if hasErrors {
		return fmt.Errorf("validation failed")
	}

	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Definitions valid.")
	}
	return nil
}

// collectFiles expands the given paths into candidate testcase files.
// Relative paths anchor at root; directories recurse.
func collectFiles(root string, args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if !filepath.IsAbs(arg) {
			arg = filepath.Join(root, arg)
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if info.IsDir() {
			files = append(files, loader.ListFiles(arg, true)...)
		} else {
			files = append(files, arg)
		}
	}
	return files, nil
}
