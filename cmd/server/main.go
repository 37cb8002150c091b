package main

import (
	"log"
	"os"

	"github.com/selim/opphub/internal/api"
	"github.com/selim/opphub/internal/auth"
	"github.com/selim/opphub/internal/config"
	"github.com/selim/opphub/internal/upstream"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client := upstream.NewClient(cfg.CatalogBaseURL, cfg.RequestTimeout())
	authService := auth.NewService(cfg.AuthBaseURL, cfg.RequestTimeout())

	srv := api.NewServer(cfg, client, authService)
	log.Printf("Server starting on %s...", cfg.Addr)
	if err := srv.Start(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
