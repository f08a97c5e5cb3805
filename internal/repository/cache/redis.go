package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/school-georesolver/internal/config"
	"go.uber.org/zap"
)

const (
	redisDialTimeout = 5 * time.Second
	redisPingTimeout = 5 * time.Second
)

// Redis - общее подключение для хранилища выбора и стримов воркера
type Redis struct {
	client *redis.Client
	addr   string
	logger *zap.Logger
}

func redisOptions(cfg *config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:        net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: redisDialTimeout,
	}
}

// NewRedis подключается и проверяет соединение через PING
func NewRedis(cfg *config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	opts := redisOptions(cfg)
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	logger.Info("Redis connected", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))

	return &Redis{client: client, addr: opts.Addr, logger: logger}, nil
}

func (r *Redis) Client() *redis.Client {
	return r.client
}

func (r *Redis) Addr() string {
	return r.addr
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	r.logger.Info("Closing Redis connection", zap.String("addr", r.addr))
	return r.client.Close()
}
