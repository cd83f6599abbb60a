// Package loader decodes definition and testcase files.
//
// Files dispatch on extension: .json and .yaml/.yml decode into generic
// sequence/mapping structures, .csv decodes into a row list keyed by the
// header line. Unknown extensions load as an empty result with a warning.
//
// The package also enumerates candidate files under a directory and
// validates decoded api/testcase files against JSON schemas before the
// registry consumes them.
package loader
