package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// set by -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown; a second signal exits at once
	go func() {
		sigCh := make(chan os.Signal, 2)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
		<-sigCh
		os.Exit(130)
	}()

	code := newApp().execute(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}
