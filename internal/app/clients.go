package app

import (
	"github.com/redis/go-redis/v9"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
)

type Clients struct {
	// Redis backs the rate limiter; nil when REDIS_ADDR is unset, which
	// turns limiting off.
	Redis *redis.Client
}

func wireClients(log *logger.Logger, cfg Config) Clients {
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		log.Info("Connecting to redis...", "addr", cfg.RedisAddr)
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	} else {
		log.Info("REDIS_ADDR not set, rate limiting disabled")
	}
	return Clients{Redis: rdb}
}
