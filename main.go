package main

import (
	"os"

	"github.com/Hakari-Bibani/OCR/pkg/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
