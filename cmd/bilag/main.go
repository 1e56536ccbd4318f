package main

import (
	"os"

	"github.com/bilag-dev/bilag/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
