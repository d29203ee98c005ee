package outbox

import (
	"time"

	"github.com/redis/go-redis/v9"
)

func NewRepositoryWithClock(rdb *redis.Client, now func() time.Time) Repository {
	return &redisRepository{rdb: rdb, now: now, backoff: 10 * time.Second}
}
