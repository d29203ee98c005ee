package connection

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var retryDelay = 5 * time.Second

func ConnectRedisWithRetry(addr, password string, db, maxRetries int, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err == nil {
			logger.Info("connected to redis", zap.String("addr", addr))
			return rdb, nil
		}

		logger.Warn("redis connect retry", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
		time.Sleep(retryDelay)
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("failed to connect redis at %s", addr)
}

func ConnectKafkaWithRetry(broker, topic string, maxRetries int, logger *zap.Logger) (*kafka.Writer, error) {
	for i := 1; i <= maxRetries; i++ {
		conn, err := kafka.Dial("tcp", broker)
		if err == nil {
			_ = conn.Close()
			logger.Info("connected to kafka", zap.String("broker", broker))
			return &kafka.Writer{
				Addr:     kafka.TCP(broker),
				Topic:    topic,
				Balancer: &kafka.LeastBytes{},
			}, nil
		}

		logger.Warn("kafka connect retry", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect kafka at %s", broker)
}
