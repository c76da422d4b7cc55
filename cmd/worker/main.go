package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Apurer/navy-bodyfat-api/internal/app/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := worker.Run(ctx); err != nil {
		log.Fatalf("body fat worker exited: %v", err)
	}
}
