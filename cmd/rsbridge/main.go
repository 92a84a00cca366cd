package main

import (
	"fmt"
	"os"

	"github.com/wharflab/rsbridge/cmd/rsbridge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cmd.ExitConfigError)
	}
}
