// Package output renders resolved testsets for the terminal and for
// machine consumption.
package output
