package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codyseavey/cardwatch/internal/api"
	"github.com/codyseavey/cardwatch/internal/config"
	"github.com/codyseavey/cardwatch/internal/history"
	"github.com/codyseavey/cardwatch/internal/models"
	"github.com/codyseavey/cardwatch/internal/services"
	"github.com/codyseavey/cardwatch/internal/tcgplayer"
)

func main() {
	configPath := os.Getenv("CARDWATCH_CONFIG")
	if configPath == "" {
		configPath = "./config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	sets, err := models.LoadSets(cfg.Sets.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load set catalog: %v", err)
	}
	log.Printf("Loaded %d sets from %s", len(sets), cfg.Sets.CatalogPath)

	var store history.Store
	switch cfg.Storage.Backend {
	case "sqlite":
		store, err = history.NewGormStore(cfg.Storage.DBPath)
		if err != nil {
			log.Fatalf("Failed to open history database: %v", err)
		}
	default:
		store = history.NewFileStore(cfg.Storage.HistoryPath)
	}

	client, err := tcgplayer.NewClient(tcgplayer.Options{
		BaseURL:        cfg.TCGPlayer.BaseURL,
		AccessToken:    cfg.TCGPlayer.AccessToken,
		RequestDelay:   cfg.TCGPlayer.RequestDelay,
		SearchPageSize: cfg.TCGPlayer.SearchPageSize,
		ChunkSize:      cfg.TCGPlayer.ChunkSize,
		Timeout:        cfg.TCGPlayer.Timeout,
		SearchCacheLen: cfg.TCGPlayer.SearchCacheLen,
	})
	if err != nil {
		log.Fatalf("Failed to create pricing client: %v", err)
	}

	tracker := services.NewTracker(client, store, sets)

	worker := services.NewIngestWorker(tracker, services.WorkerConfig{
		Watch:          cfg.Watch,
		CardType:       cfg.Ingest.CardType,
		MaxWatchMonths: cfg.Sets.MaxWatchMonths,
		Hour:           cfg.Ingest.Hour,
		CheckInterval:  cfg.Ingest.CheckInterval,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("PANIC in ingest worker: %v - restarting in 30 seconds", r)
					}
				}()
				worker.Start(ctx)
			}()

			select {
			case <-ctx.Done():
				return
			case <-time.After(30 * time.Second):
				log.Println("Ingest worker restarting after panic recovery...")
			}
		}
	}()

	router := api.SetupRouter(cfg, tracker, worker)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
