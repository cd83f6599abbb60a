// Package env supplies bindings from the process environment, .env
// files, and per-directory binding files.
//
// DirSource is the default external binding source for the evaluator:
// variables come from the nearest vars.yaml walking upward from the file
// under evaluation, functions from host-registered per-directory tables.
package env
