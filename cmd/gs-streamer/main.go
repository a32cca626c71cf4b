package main

import (
	"fmt"
	"os"

	"gs-streamer/internal/command"
)

func main() {
	if err := command.NewApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
