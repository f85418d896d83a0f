package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/logtrim/internal/cli"
	"github.com/arthur-debert/logtrim/pkg/style"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		renderer := style.NewRenderer(os.Stderr)
		fmt.Fprintln(os.Stderr, renderer.RenderError(err))
		os.Exit(1)
	}
}
