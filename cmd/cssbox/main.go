// File: cmd/cssbox/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/cssbox/cmd"
	"github.com/xkilldash9x/cssbox/internal/observability"
)

func main() {
	// Cancel in-flight layout passes on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	code := cmd.Execute(ctx, os.Args[1:])

	stop()
	observability.Sync()
	os.Exit(code)
}
