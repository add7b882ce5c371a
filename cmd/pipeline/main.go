// Command pipeline runs a declarative node-graph automation document.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/pipeline-go/cmd/pipeline/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
