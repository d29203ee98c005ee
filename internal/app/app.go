package app

import (
	"context"
	"time"

	"go-storefront/internal/config"
	"go-storefront/internal/shared/connection"
	"go-storefront/internal/shared/kv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	connectRetries  = 5
	janitorInterval = 5 * time.Minute
	sessionIdle     = 30 * time.Minute
)

// infra holds the shared connections. rdb is nil when redis is not
// configured; the stores then fall back to process memory.
type infra struct {
	rdb        *redis.Client
	sessionKV  kv.Store
	catalogKV  kv.Store
	cartReader *kafka.Reader
}

func (i *infra) close(logger *zap.Logger) {
	if i.cartReader != nil {
		if err := i.cartReader.Close(); err != nil {
			logger.Warn("close kafka reader failed", zap.Error(err))
		}
	}
	if i.rdb != nil {
		if err := i.rdb.Close(); err != nil {
			logger.Warn("close redis failed", zap.Error(err))
		}
	}
}

// BuildApp connects the infrastructure, registers every module on router and
// starts the background loops bound to ctx. The returned func releases the
// connections.
func BuildApp(ctx context.Context, router *gin.Engine, cfg *config.Config, logger *zap.Logger) (func(), error) {
	// 1. Setup Infrastructure
	in := &infra{}
	if cfg.Redis.Addr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, connectRetries, logger)
		if err != nil {
			return nil, errors.Wrap(err, "connect redis")
		}
		in.rdb = rdb
		in.sessionKV = kv.NewRedisStore(rdb, "session:")
		in.catalogKV = kv.NewRedisStore(rdb, "catalog:")
	} else {
		logger.Warn("redis not configured, sessions live in process memory")
		in.sessionKV = kv.NewMemoryStore()
		in.catalogKV = kv.NewMemoryStore()
	}

	if cfg.Kafka.Broker != "" {
		in.cartReader = kafka.NewReader(kafka.ReaderConfig{
			Brokers: []string{cfg.Kafka.Broker},
			Topic:   cfg.Kafka.OrderTopic,
			GroupID: cfg.Kafka.ConsumerGroup,
		})
	}

	// 2. Register Modules & Routes
	m, err := registerModules(router, cfg, in, logger)
	if err != nil {
		in.close(logger)
		return nil, err
	}

	// 3. Background loops
	go m.store.RunJanitor(ctx, janitorInterval, sessionIdle)
	if in.cartReader != nil {
		go m.consumeCartEvents(ctx, in.cartReader)
	}

	return func() { in.close(logger) }, nil
}
