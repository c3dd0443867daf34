package app

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/hibiken/asynq"
	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// NewLimiterStore wires a rate limiter store backed by Redis.
func NewLimiterStore(rdb *redis.Client) (limiter.Store, error) {
	return limiterredis.NewStoreWithOptions(rdb, limiter.StoreOptions{})
}

// RunMigrations exposes migrate for startup routines.
func RunMigrations(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// AsynqRedisOpt translates a redis URL into asynq's connection options so the
// API, worker, and scheduler all point at the same broker.
func AsynqRedisOpt(redisURL string) (asynq.RedisClientOpt, error) {
	var opt asynq.RedisClientOpt
	parsed, err := url.Parse(redisURL)
	if err != nil {
		return opt, fmt.Errorf("app: parse redis url: %w", err)
	}
	opt.Addr = parsed.Host
	if parsed.User != nil {
		opt.Username = parsed.User.Username()
		if pw, ok := parsed.User.Password(); ok {
			opt.Password = pw
		}
	}
	if db := strings.TrimPrefix(parsed.Path, "/"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return opt, fmt.Errorf("app: redis db in %q: %w", redisURL, err)
		}
		opt.DB = n
	}
	return opt, nil
}
