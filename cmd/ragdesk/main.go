package main

import (
	"fmt"
	"os"

	"github.com/camber-labs/ragdesk/internal/adapters/driving/cli"
)

// version is overridden at build time via
// -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
