package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewClient connects to Redis. A server that does not answer the ping is not
// fatal: the caller gets a nil client and the game runs without publishing.
func NewClient(ctx context.Context, addr, password string, log *zap.Logger) *redis.Client {
	if log == nil {
		log = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("[REDIS] Could not connect, events will not be published", zap.String("addr", addr), zap.Error(err))
		client.Close()
		return nil
	}

	log.Info("[REDIS] Connected successfully", zap.String("addr", addr))
	return client
}
