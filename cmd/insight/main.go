// Command insight loads course and room datasets and answers JSON queries
// over them.
package main

import (
	"os"

	"github.com/vegasq/insight/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
