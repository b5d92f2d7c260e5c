// Package main is the entry point for the computectl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/greese/dasein-cloud-core-sub001/internal/cli"
	"github.com/greese/dasein-cloud-core-sub001/internal/logging"
)

func main() {
	app := cli.New()
	err := app.Execute()
	_ = logging.GetDefault().Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
