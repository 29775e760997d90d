package main

import (
	"os"

	"github.com/healthhub-dev/healthhub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
