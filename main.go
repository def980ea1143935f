package main

import (
	"os"

	"github.com/example/flashbank/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
