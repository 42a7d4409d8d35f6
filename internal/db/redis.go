package db

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	configs "github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/config"
)

func NewRedisClient(cfg *configs.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Test connection
	ctx := context.Background()
	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Configure RDB persistence with more frequent saves for real-time data
	err = rdb.ConfigSet(ctx, "save", "900 1 300 10 60 10000").Err()
	if err != nil {
		log.Printf("Warning: Failed to set Redis RDB save configuration: %v", err)
	}

	err = rdb.ConfigSet(ctx, "dbfilename", "arena-service.rdb").Err()
	if err != nil {
		log.Printf("Warning: Failed to set Redis RDB filename: %v", err)
	}

	fmt.Println("Connected to Redis successfully with RDB persistence configured")
	return rdb
}
