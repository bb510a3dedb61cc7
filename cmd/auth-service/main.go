package main

import (
	"context"
	"log"

	"github.com/MattHalloran/NLN-sub003/internal/app"
	"github.com/MattHalloran/NLN-sub003/internal/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	application, err := app.NewApp(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}
