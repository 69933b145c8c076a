package main

import (
	"fmt"
	"os"

	"github.com/yndnr/pwapreview/internal/cli/app"
	"github.com/yndnr/pwapreview/internal/server/preview"
)

func main() {
	if err := app.New(app.HTTPS).Run(os.Args); err != nil {
		if !preview.Reported(err) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
