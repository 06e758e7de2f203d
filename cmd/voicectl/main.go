// Command voicectl inspects settings, history and diagnostics without a
// display server.
package main

import (
	"fmt"
	"os"

	"voice-transcriber/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(cli.Options{Use: "voicectl"}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "voicectl: %v\n", err)
		os.Exit(1)
	}
}
