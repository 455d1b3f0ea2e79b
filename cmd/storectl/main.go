// storectl is the maintenance CLI for the bot's JSON stores and log streams.
// Build with: go build -o bin/storectl ./cmd/storectl
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
