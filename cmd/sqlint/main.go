// Command sqlint is a rule-based SQL linter and auto-fixer.
package main

import (
	"os"

	"github.com/sqlint-dev/sqlint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
