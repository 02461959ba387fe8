package main

import (
	"os"

	"github.com/dgallion1/brailledoc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
