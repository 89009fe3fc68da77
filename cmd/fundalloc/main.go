package main

import (
	"os"
)

func main() {
	// Reported failures exit 0; only flag parsing errors reach here.
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
