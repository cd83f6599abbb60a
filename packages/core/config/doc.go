// Package config loads apirunner project configuration: where api and
// suite definitions live, which .env file to load, and project-wide
// variables handed to the evaluator.
package config
