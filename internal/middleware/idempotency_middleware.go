package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	ReplayedHeader    = "Idempotent-Replayed"

	idempotencyLockTTL = 30 * time.Second
	idempotencySkipKey = "idempotency_skip"
)

// SkipIdempotencyCache marks a successful response as not final, so a repeat
// with the same Idempotency-Key runs the handler again.
func SkipIdempotencyCache(c *gin.Context) {
	c.Set(idempotencySkipKey, true)
}

type cachedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency guards mutating endpoints against double submission. While a
// request with a given Idempotency-Key is in flight, a second one gets 409;
// once it succeeded, repeats get the stored response. Keys are scoped to the
// storefront session. Requests without the header pass through.
func Idempotency(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("middleware.idempotency")

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > 128 {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Idempotency-Key is too long", nil)
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		scope := SessionID(c) + ":" + key
		cacheKey := "idem:resp:" + scope
		lockKey := "idem:lock:" + scope

		// 1. replay
		if raw, err := rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached cachedResponse
			if json.Unmarshal(raw, &cached) == nil {
				c.Header(ReplayedHeader, "true")
				c.Data(cached.Status, "application/json; charset=utf-8", cached.Body)
				c.Abort()
				return
			}
		}

		// 2. lock
		ok, err := rdb.SetNX(ctx, lockKey, "1", idempotencyLockTTL).Result()
		if err != nil {
			log.Error("idempotency lock failed", zap.Error(err))
			response.Error(c, http.StatusServiceUnavailable, "UPSTREAM_ERROR", "Please try again", nil)
			c.Abort()
			return
		}
		if !ok {
			response.Error(c, http.StatusConflict, "CONFLICT", "This request is already being processed", nil)
			c.Abort()
			return
		}
		defer func() {
			if err := rdb.Del(context.WithoutCancel(ctx), lockKey).Err(); err != nil {
				log.Warn("idempotency unlock failed", zap.String("lock_key", lockKey), zap.Error(err))
			}
		}()

		w := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		// 3. remember successful outcomes only
		status := w.Status()
		if status < 200 || status >= 300 || c.GetBool(idempotencySkipKey) {
			return
		}
		payload, err := json.Marshal(cachedResponse{Status: status, Body: w.body.Bytes()})
		if err != nil {
			return
		}
		if err := rdb.Set(context.WithoutCancel(ctx), cacheKey, payload, ttl).Err(); err != nil {
			log.Warn("idempotency cache write failed", zap.Error(err))
		}
	}
}
