package main

import (
	"os"

	"github.com/parts-pile/carprice/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
