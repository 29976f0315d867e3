package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

var Client *redis.Client

// InitRedis initializes Redis connection
func InitRedis(addr, password string, db int) error {
	Client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx := context.Background()
	if err := Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("✓ Redis connected successfully")
	return nil
}

// Close closes the Redis connection
func Close() error {
	if Client != nil {
		return Client.Close()
	}
	return nil
}

// pageKey is the cache key for one served landing page.
func pageKey(clientID, slug string) string {
	return fmt.Sprintf("page:%s:%s", clientID, slug)
}

// GetPage returns the cached rendered document, or "" on miss.
func GetPage(ctx context.Context, clientID, slug string) (string, error) {
	html, err := Client.Get(ctx, pageKey(clientID, slug)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return html, nil
}

// SetPage caches a rendered document for ttl.
func SetPage(ctx context.Context, clientID, slug, html string, ttl time.Duration) error {
	return Client.Set(ctx, pageKey(clientID, slug), html, ttl).Err()
}

// InvalidatePage drops the cached document after a re-publish.
func InvalidatePage(ctx context.Context, clientID, slug string) error {
	return Client.Del(ctx, pageKey(clientID, slug)).Err()
}
