package main

import (
	"fmt"
	"os"

	"voice-transcriber/internal/cli"
	"voice-transcriber/internal/hotkeys/native"
)

func main() {
	root := cli.NewRootCmd(cli.Options{
		Use:            "voice-transcriber",
		Desktop:        true,
		RegisterHotkey: native.Register,
	})
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "voice-transcriber: %v\n", err)
		os.Exit(1)
	}
}
