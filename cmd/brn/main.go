package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sokinpui/brn.go/brn"
	"github.com/sokinpui/brn.go/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		if !errors.Is(err, cli.ErrPartial) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		var de *brn.DetailedError
		if errors.As(err, &de) {
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", de.Stack)
		}
		os.Exit(1)
	}
}
