package main

import (
	"os"

	"github.com/jackalchenxu/parse-idl/cmd/parse-idl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
