package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-agency/internal/commands"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "agency: %v\n", err)
		if commands.IsValidation(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
