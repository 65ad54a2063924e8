package main

import (
	"os"

	"obscond/cmd/obscond/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
