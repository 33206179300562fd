package main

import (
	"os"

	"github.com/gnolang/tsat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
