package main

import (
	"os"

	"github.com/backoffice-suite/backoffice/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
