// Command main runs the background worker: it consumes queued tasks
// (comment creation) and periodically sweeps empty categories.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quill/internal/cache"
	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/repository"
	"quill/internal/service"
	"quill/internal/tasks"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()
	if redisClient == nil {
		log.Fatal("Worker requires Redis; none available")
	}

	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	queue := tasks.NewQueue(redisClient, tasks.DefaultQueueKey)
	commentService := service.NewCommentService(commentRepo, postRepo, queue)
	categoryService := service.NewCategoryService(categoryRepo)

	worker := tasks.NewWorker(queue)
	worker.Register(tasks.CreateCommentTask, commentService.HandleCreateComment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down worker...")
		cancel()
	}()

	// Periodic sweep of categories that no longer have posts.
	go func() {
		interval := time.Duration(cfg.CategorySweepMinutes) * time.Minute
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := categoryService.PurgeEmpty(ctx)
				if err != nil {
					log.Printf("Category sweep failed: %v", err)
					continue
				}
				if removed > 0 {
					log.Printf("Category sweep removed %d empty categories", removed)
				}
			}
		}
	}()

	worker.Run(ctx)
}
