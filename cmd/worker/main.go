package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/project-tktt/gradconnection-crawler/internal/common/cleaner"
	"github.com/project-tktt/gradconnection-crawler/internal/common/indexer"
	"github.com/project-tktt/gradconnection-crawler/internal/config"
	"github.com/project-tktt/gradconnection-crawler/internal/module/worker"
	"github.com/project-tktt/gradconnection-crawler/internal/queue"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Job Worker Service")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	log.Println("Redis connected")

	var indexers []indexer.Indexer

	if cfg.Postgres.ConnectionString != "" {
		pgIndexer, err := indexer.NewPostgresIndexer(cfg.Postgres.ConnectionString, cfg.Postgres.TableName)
		if err != nil {
			log.Fatalf("PostgreSQL connection failed: %v", err)
		}
		log.Printf("PostgreSQL connected, table: %s", cfg.Postgres.TableName)
		indexers = append(indexers, pgIndexer)
	}

	if len(cfg.Elasticsearch.Addresses) > 0 {
		esIndexer, err := indexer.NewElasticsearchIndexer(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Index)
		if err != nil {
			log.Fatalf("Elasticsearch connection failed: %v", err)
		}
		log.Printf("Elasticsearch connected, index: %s", cfg.Elasticsearch.Index)

		if err := esIndexer.EnsureIndex(ctx); err != nil {
			log.Printf("Warning: Failed to ensure index: %v", err)
		}
		indexers = append(indexers, esIndexer)
	}

	if len(indexers) == 0 {
		log.Fatal("No indexer configured: set POSTGRES_URL and/or ELASTICSEARCH_URL")
	}
	defer func() {
		for _, idx := range indexers {
			if err := idx.Close(); err != nil {
				log.Printf("Close indexer: %v", err)
			}
		}
	}()

	consumer := queue.NewConsumer(rdb, cfg.Redis.JobQueue, 5*time.Second)
	w := worker.NewWorker(consumer, cleaner.NewCleaner(), indexers, worker.Config{
		Concurrency: cfg.Worker.Concurrency,
		BatchSize:   cfg.Worker.BatchSize,
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Worker error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received, stopping...")

	select {
	case <-done:
		log.Println("Graceful shutdown complete")
	case <-time.After(30 * time.Second):
		log.Println("Shutdown timeout, forcing exit")
	}
}
