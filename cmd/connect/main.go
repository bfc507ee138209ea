// Command connect runs single table reads and writes against the configured
// database and prints the results as JSON.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

func main() {
	if err := newRootCommand(afero.NewOsFs()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
