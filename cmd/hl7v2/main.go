package main

import (
	"os"

	"github.com/gohl7/hl7v2/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
