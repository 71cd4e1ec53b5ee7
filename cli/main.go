package main

import (
	"os"

	"github.com/seawatch-systems/seawatch-stack/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
