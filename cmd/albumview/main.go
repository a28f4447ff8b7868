package main

import (
	"fmt"
	"os"

	"albumview/internal/log"
)

var version = "dev"

func main() {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	log.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorText(err.Error()))
		os.Exit(1)
	}
}
