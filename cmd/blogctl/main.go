// Command blogctl runs schema migrations and loads demo data.
package main

import (
	"os"

	"blogly/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
