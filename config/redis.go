package config

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis connects the optional Redis instance used for rate limiting.
// Missing or unreachable Redis only disables the limiter.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if _, err := RedisClient.Ping(context.Background()).Result(); err != nil {
		log.Printf("WARNING: failed to connect to Redis at %s: %v. Rate limiting disabled.", addr, err)
		RedisClient = nil
		return
	}
	log.Println("Redis connected")
}
