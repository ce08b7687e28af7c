package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const ServiceName = "scoutnet"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, a := newRootCmd()
	err := cmd.ExecuteContext(ctx)
	if closeErr := a.close(context.Background()); closeErr != nil {
		fmt.Fprintln(os.Stderr, "Error:", closeErr)
		if err == nil {
			err = closeErr
		}
	}
	if err != nil {
		stop()
		os.Exit(1)
	}
}
