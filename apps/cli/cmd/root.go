package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag  string
	envFileFlag string
	noColorFlag bool
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "apirunner",
	Short: "YAML/JSON API test definitions, resolved and ready to run.",
	Long: `apirunner loads API test specifications written in YAML or JSON,
resolves their api and suite references against reusable definitions,
and prints the fully assembled testsets.`,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitUsageError)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", getEnvString("APIRUNNER_CONFIG", ""), "Path to config file (env: APIRUNNER_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", getEnvString("APIRUNNER_ENV_FILE", ""), "Path to .env file loaded before resolution (env: APIRUNNER_ENV_FILE)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", getEnvBool("APIRUNNER_NO_COLOR", false), "Disable colored output (env: APIRUNNER_NO_COLOR)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("APIRUNNER_VERBOSE", false), "Verbose output (env: APIRUNNER_VERBOSE)")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
