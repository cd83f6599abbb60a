package main

import "github.com/apirunner/apirunner/apps/cli/cmd"

// set at build time with -ldflags
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}
