package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/yanqian/pawpulse/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (overrides CONFIG_PATH)")
	flag.Parse()
	if *configPath != "" {
		if err := os.Setenv("CONFIG_PATH", *configPath); err != nil {
			log.Fatalf("set config path: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	app, cleanup, err := initializeApp()
	if err != nil {
		log.Fatalf("failed to wire pawpulse: %v", err)
	}

	err = app.Run(ctx)
	cleanup()
	if err != nil {
		log.Fatalf("pawpulse stopped with error: %v", err)
	}
}
