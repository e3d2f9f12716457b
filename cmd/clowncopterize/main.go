package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCmd(&app{stdin: os.Stdin, stdout: os.Stdout, configDir: "."})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
