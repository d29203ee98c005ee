package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	eventsKey  = "outbox:events"
	pendingKey = "outbox:pending"
	deadKey    = "outbox:dead"

	// MaxAttempts is how many publish failures an event survives before it is
	// parked in the dead set.
	MaxAttempts = 5
)

var ErrEventNotFound = errors.New("outbox: event not found")

//go:generate mockgen -source=outbox_repo.go -destination=../mock/outbox/outbox_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, e Event) error
	ListPending(ctx context.Context, limit int64) ([]Event, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}

// redisRepository keeps event bodies in a hash and schedules them in a sorted
// set scored by the time they become due.
type redisRepository struct {
	rdb     *redis.Client
	now     func() time.Time
	backoff time.Duration
}

func NewRepository(rdb *redis.Client) Repository {
	return &redisRepository{rdb: rdb, now: time.Now, backoff: 10 * time.Second}
}

func (r *redisRepository) Create(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode outbox event: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, eventsKey, e.ID, body)
		p.ZAdd(ctx, pendingKey, redis.Z{Score: score(e.CreatedAt), Member: e.ID})
		return nil
	})
	return err
}

func (r *redisRepository) ListPending(ctx context.Context, limit int64) ([]Event, error) {
	ids, err := r.rdb.ZRangeByScore(ctx, pendingKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   fmt.Sprintf("%d", r.now().UnixMilli()),
		Count: limit,
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	bodies, err := r.rdb.HMGet(ctx, eventsKey, ids...).Result()
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(ids))
	for i, raw := range bodies {
		s, ok := raw.(string)
		if !ok {
			// body is gone; drop the dangling schedule entry
			r.rdb.ZRem(ctx, pendingKey, ids[i])
			continue
		}
		var e Event
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			return nil, fmt.Errorf("decode outbox event %s: %w", ids[i], err)
		}
		events = append(events, e)
	}
	return events, nil
}

func (r *redisRepository) MarkSent(ctx context.Context, id string) error {
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZRem(ctx, pendingKey, id)
		p.HDel(ctx, eventsKey, id)
		return nil
	})
	return err
}

func (r *redisRepository) MarkFailed(ctx context.Context, id string) error {
	raw, err := r.rdb.HGet(ctx, eventsKey, id).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrEventNotFound
	}
	if err != nil {
		return err
	}

	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return fmt.Errorf("decode outbox event %s: %w", id, err)
	}
	e.Attempts++

	if e.Attempts >= MaxAttempts {
		e.Status = StatusFailed
	}
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}

	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, eventsKey, id, body)
		if e.Status == StatusFailed {
			p.ZRem(ctx, pendingKey, id)
			p.ZAdd(ctx, deadKey, redis.Z{Score: score(r.now()), Member: id})
			return nil
		}
		due := r.now().Add(r.backoff * time.Duration(e.Attempts))
		p.ZAdd(ctx, pendingKey, redis.Z{Score: score(due), Member: id})
		return nil
	})
	return err
}

func score(t time.Time) float64 {
	return float64(t.UnixMilli())
}
