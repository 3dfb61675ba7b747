package main

import (
	"os"

	"github.com/cartola-dev/cartola/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
