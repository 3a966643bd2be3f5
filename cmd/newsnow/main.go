package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/deusflow/newsnow/internal/app"
	"github.com/deusflow/newsnow/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, config.ErrHelp) {
			return
		}
		log.Fatalf("newsnow: %v", err)
	}
}
