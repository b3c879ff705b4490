// Command painel serves the participant dashboard API.
//
// Without a subcommand it starts the HTTP server. The worksheets and summary
// subcommands read the configured spreadsheet once and print the result.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/JonMunkholm/painel/internal/core"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints the catalogued message with its code and action when
// err has one, followed by the technical detail.
func reportError(w io.Writer, err error) {
	if core.IsUserFacing(err) {
		fmt.Fprintln(w, core.FormatUserError(err))
	}
	fmt.Fprintln(w, "error:", err)
}
