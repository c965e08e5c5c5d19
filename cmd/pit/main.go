// pit orchestrates concurrent coding-agent sessions against a git repository.
package main

import (
	"os"

	"github.com/iaptsiauri/pit/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
