package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new apirunner project",
	Long: `Initialize a new apirunner project in the current directory.

This creates:
  - .apirunner.json          - Project configuration
  - tests/api/demo.yml       - Example api definitions
  - tests/suite/smoke.yml    - Example suite definition
  - tests/testcases/demo.yml - Example testcase file

Examples:
  apirunner init
  apirunner init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleAPIFile = `- api:
    def: get_user($uid)
    name: get user $uid
    request:
      url: /api/users/$uid
      method: GET
    validate:
      - eq: [status_code, 200]

- api:
    def: create_user($uid, $name)
    name: create user $uid
    request:
      url: /api/users/$uid
      method: POST
      json:
        name: $name
    validate:
      - eq: [status_code, 201]
`

const exampleSuiteFile = `- config:
    def: suite_user_lifecycle($uid)
    name: user lifecycle for $uid

- test:
    api: create_user($uid, demo)

- test:
    api: get_user($uid)
`

const exampleTestFile = `- config:
    name: demo testcases
    variables:
      base_url: ${env(BASE_URL)}

- test:
    api: create_user(1001, alice)

- test:
    name: fetch the created user
    api: get_user(1001)

- test:
    suite: suite_user_lifecycle(2002)
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	scaffold := map[string]string{
		filepath.Join("tests", "api", "demo.yml"):       exampleAPIFile,
		filepath.Join("tests", "suite", "smoke.yml"):    exampleSuiteFile,
		filepath.Join("tests", "testcases", "demo.yml"): exampleTestFile,
	}

	configFile := filepath.Join(cwd, ".apirunner.json")
	if !forceInit {
		if _, err := os.Stat(configFile); err == nil {
			return fmt.Errorf("file already exists: %s (use --force to overwrite)", configFile)
		}
		for rel := range scaffold {
			path := filepath.Join(cwd, rel)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", path)
			}
		}
	}

	configContent := map[string]any{
		"apiDir":   "tests/api",
		"suiteDir": "tests/suite",
		"variables": map[string]any{
			"base_url": "http://localhost:5000",
		},
	}
	data, err := json.MarshalIndent(configContent, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(configFile, append(data, '\n'), 0o644); err != nil {
		return err
	}

	for rel, content := range scaffold {
		path := filepath.Join(cwd, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Initialized apirunner project.")
	fmt.Fprintln(cmd.OutOrStdout(), "Try: apirunner resolve tests/testcases/demo.yml")
	return nil
}
