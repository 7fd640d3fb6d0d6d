// poseidon is the CLI for reading and editing a directory of JSON configs.
package main

import (
	"fmt"
	"os"

	"poseidon/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
