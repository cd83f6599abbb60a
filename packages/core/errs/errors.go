package errs

import "errors"

// Sentinel errors for the definition-resolution pipeline. Callers match
// with errors.Is; sites that need detail wrap these with fmt.Errorf and %w.
var (
	// ErrFileNotFound indicates a referenced file or directory does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrFileFormat indicates malformed, empty, or wrong-shaped file content.
	ErrFileFormat = errors.New("file format error")

	// ErrParams indicates an argument-count mismatch, an unresolvable
	// binding, or malformed parameter syntax.
	ErrParams = errors.New("params error")

	// ErrAPINotFound indicates a dangling api reference.
	ErrAPINotFound = errors.New("api not found")

	// ErrSuiteNotFound indicates a dangling suite reference.
	ErrSuiteNotFound = errors.New("suite not found")

	// ErrFunctionNotFound indicates a function name that no binding source
	// could resolve.
	ErrFunctionNotFound = errors.New("function not found")

	// ErrVariableNotFound indicates a variable name that no binding source
	// could resolve.
	ErrVariableNotFound = errors.New("variable not found")

	// ErrCyclicReference indicates a suite that transitively references
	// itself.
	ErrCyclicReference = errors.New("cyclic suite reference")
)
