package cmd

// Exit codes for the apirunner CLI
const (
	// ExitSuccess indicates the command completed without errors
	ExitSuccess = 0

	// ExitResolveError indicates a resolution or validation failure
	ExitResolveError = 1

	// ExitFormatError indicates a file format or parse error
	ExitFormatError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
