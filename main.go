package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/owl2lpg/cmd"
	"github.com/xkilldash9x/owl2lpg/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cmd.Execute(ctx)
	stop()
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}
