// papercast generates multi-speaker podcast audio from scripts, source
// material, or topics using the Volcano Engine podcast synthesis API.
//
// Services:
//   - generate: synthesize a podcast (resumes automatically on drops)
//   - speakers: list built-in speaker pairings
//   - config:   manage credentials, kubectl-style contexts
//
// Configuration is stored in ~/.papercast/config.yaml.
package main

import (
	"fmt"
	"os"

	"github.com/papercast/papercast/cmd/papercast/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
