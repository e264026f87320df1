package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Apurer/rack-rental/internal/app/api"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("order service exited: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg, err := api.LoadConfig(api.DefaultOrderServicePort)
	if err != nil {
		return err
	}
	return api.Run(ctx, cfg)
}
