// Command patternspace loads pattern domains and projects them for
// rendering.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/patternspace/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
