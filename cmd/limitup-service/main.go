package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trogers1052/limitup-lab/internal/api"
	"github.com/trogers1052/limitup-lab/internal/cache"
	"github.com/trogers1052/limitup-lab/internal/config"
	"github.com/trogers1052/limitup-lab/internal/database"
	"github.com/trogers1052/limitup-lab/internal/ingest"
	"github.com/trogers1052/limitup-lab/internal/kafka"
)

func main() {
	barsPath := flag.String("load-bars", "", "CSV or Parquet file of daily bars to import at startup")
	instrumentsPath := flag.String("load-instruments", "", "CSV or Parquet file of instruments to import at startup")
	migrationsPath := flag.String("migrations", "db/migrations", "path to the migration files")
	flag.Parse()

	cfg := config.Load()

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(*migrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if *instrumentsPath != "" {
		if err := importInstruments(db, *instrumentsPath); err != nil {
			log.Fatalf("Failed to import instruments: %v", err)
		}
	}
	if *barsPath != "" {
		if err := importBars(db, *barsPath); err != nil {
			log.Fatalf("Failed to import bars: %v", err)
		}
	}

	var resultCache *cache.Cache
	rc := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, time.Duration(cfg.Redis.TTLSecs)*time.Second)
	if err := rc.Ping(context.Background()); err != nil {
		log.Printf("Redis unavailable, running without cache: %v", err)
		rc.Close()
	} else {
		resultCache = rc
		defer rc.Close()
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.RunTopic)
	defer producer.Close()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.BarTopic, cfg.Kafka.GroupID, db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := consumer.Start(ctx); err != nil {
			log.Printf("Kafka consumer stopped: %v", err)
		}
	}()

	handler := api.NewHandler(db, resultCache, producer, cfg)
	router := api.SetupRoutes(handler)

	server := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}

func importInstruments(db *database.DB, path string) error {
	instruments, err := ingest.ReadInstruments(path)
	if err != nil {
		return err
	}
	for i := range instruments {
		if err := db.UpsertInstrument(&instruments[i]); err != nil {
			return err
		}
	}
	log.Printf("Imported %d instruments from %s", len(instruments), path)
	return nil
}

func importBars(db *database.DB, path string) error {
	bars, err := ingest.ReadBars(path)
	if err != nil {
		return err
	}
	if err := db.UpsertDailyBarsBatch(bars); err != nil {
		return err
	}
	log.Printf("Imported %d daily bars from %s", len(bars), path)
	return nil
}
