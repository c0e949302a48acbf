// Command tsbind generates Rust serde types from TypeScript declarations.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/tsbind/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(cli.GetExitCode(err))
}
