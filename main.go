package main

import (
	"os"

	"github.com/medassist/medichat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
