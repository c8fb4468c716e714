package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/rezzy/server/internal/shared/errors"
	"github.com/rezzy/server/internal/shared/response"
)

const (
	// IdempotencyKeyHeader carries the client-chosen replay key.
	IdempotencyKeyHeader = "Idempotency-Key"

	replayKeyPrefix      = "rezzy:replay:"
	defaultReplayTTL     = 24 * time.Hour
	defaultReplayLock    = 30 * time.Second
	maxIdempotencyKeyLen = 255
)

// IdempotencyConfig holds idempotency middleware configuration.
type IdempotencyConfig struct {
	// TTL is how long a successful response is replayed.
	TTL time.Duration
	// LockTTL bounds how long a request holds the key while in flight.
	LockTTL time.Duration
	// Logger receives store failures. Nil disables logging.
	Logger *zap.Logger
}

// DefaultIdempotencyConfig returns the default idempotency configuration.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     defaultReplayTTL,
		LockTTL: defaultReplayLock,
	}
}

// storedResponse is the replayed part of a response.
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// captureWriter copies the body while it is written to the client.
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// replayStore keeps responses and in-flight locks in redis.
type replayStore struct {
	client goredis.UniversalClient
	cfg    IdempotencyConfig
}

func (s *replayStore) get(ctx context.Context, key string) (*storedResponse, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var resp storedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *replayStore) put(ctx context.Context, key string, resp *storedResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, s.cfg.TTL).Err()
}

func (s *replayStore) lock(ctx context.Context, key string) (bool, error) {
	return s.client.SetNX(ctx, key+":lock", "1", s.cfg.LockTTL).Result()
}

func (s *replayStore) unlock(ctx context.Context, key string) {
	s.client.Del(ctx, key+":lock")
}

// Idempotency replays the stored response of a request retried with the same
// Idempotency-Key by the same user. Requests without the header pass through,
// as does everything when the store is unreachable.
func Idempotency(client goredis.UniversalClient, cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultReplayTTL
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultReplayLock
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	store := &replayStore{client: client, cfg: cfg}

	return func(c *gin.Context) {
		clientKey := c.GetHeader(IdempotencyKeyHeader)
		if client == nil || clientKey == "" {
			c.Next()
			return
		}
		if len(clientKey) > maxIdempotencyKeyLen {
			response.BadRequest(c, "Idempotency-Key is too long")
			return
		}

		ctx := c.Request.Context()
		key := replayKey(c, clientKey)

		stored, err := store.get(ctx, key)
		switch {
		case err == nil:
			c.Header("Idempotent-Replayed", "true")
			c.Data(stored.Status, stored.ContentType, stored.Body)
			c.Abort()
			return
		case !errors.Is(err, goredis.Nil):
			log.Warn("idempotency lookup failed", zap.Error(err))
			c.Next()
			return
		}

		locked, err := store.lock(ctx, key)
		if err != nil {
			log.Warn("idempotency lock failed", zap.Error(err))
			c.Next()
			return
		}
		if !locked {
			response.AppError(c, apperrors.Conflict("a request with this idempotency key is already being processed"))
			return
		}
		defer store.unlock(context.WithoutCancel(ctx), key)

		writer := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		// Failed requests stay retryable.
		status := writer.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}
		err = store.put(context.WithoutCancel(ctx), key, &storedResponse{
			Status:      status,
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.body.Bytes(),
		})
		if err != nil {
			log.Warn("idempotency store failed", zap.Error(err))
		}
	}
}

// replayKey scopes the client key to the caller and route.
func replayKey(c *gin.Context, clientKey string) string {
	sum := sha256.Sum256([]byte(GetUserID(c) + "\x00" + c.Request.Method + "\x00" + c.FullPath() + "\x00" + clientKey))
	return replayKeyPrefix + hex.EncodeToString(sum[:])
}
