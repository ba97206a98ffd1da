// ichcrawl is a structured extraction and chunking pipeline for Chinese
// intangible cultural heritage pages.
package main

import (
	"fmt"
	"os"

	"github.com/heritagelab/ichcrawl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
