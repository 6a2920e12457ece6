package main

import (
	"os"

	"github.com/glyphpack/glyphpack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
