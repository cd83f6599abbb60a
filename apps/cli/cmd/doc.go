// Package cmd implements the apirunner CLI commands using Cobra.
//
// Available commands:
//   - resolve: Load definitions and print fully resolved testsets
//   - list: Display the testcases defined in testcase files
//   - validate: Check definition and testcase files without resolving
//   - init: Create a new apirunner project with example files
//   - version: Show apirunner version information
//
// Project configuration comes from .apirunner.json (or
// apirunner.config.json) in the project root, overridable per command
// with --config.
package cmd
