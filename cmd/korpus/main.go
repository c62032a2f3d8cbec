package main

import (
	"os"

	"github.com/korpus-dev/korpus/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
