package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <file|directory>...",
	Short: "List the testcases defined in testcase files",
	Long: `List every testcase a file resolves to, grouped by file.

Examples:
  apirunner list tests/testcases/smoke.yml
  apirunner list tests/testcases/`,
	Args: cobra.MinimumNArgs(1),
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}

	for _, arg := range args {
		testsets, err := proj.registry.LoadTestcases(arg)
		if err != nil {
			return err
		}
		for _, ts := range testsets {
			path, _ := ts.Config["path"].(string)
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n", path)
			for i, tc := range ts.Testcases {
				name, _ := tc["name"].(string)
				if name == "" {
					name = fmt.Sprintf("testcase %d", i+1)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", name)
			}
		}
	}

	return nil
}
