package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/primestyle/primestyle/internal/apperr"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"

	maxIdempotencyKeyLen = 128
	replayKeyPrefix      = "primestyle:replay:"
	pendingMarker        = "pending"
	cacheOpTimeout       = 2 * time.Second
)

var errReplayPending = apperr.New(apperr.Conflict, "Duplicate request currently processing")

// replay is the cached outcome of a mutating request.
type replay struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}

// Idempotency lets clients retry attempts and payouts safely by sending an
// Idempotency-Key header: the first response for a (user, path, key) triple
// is stored and replayed to later requests. Requests without the header, and
// every request when cache is nil, run normally.
func Idempotency(cache *redis.Client, ttl time.Duration, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return c.Next()
		}
		key := strings.TrimSpace(c.Get(IdempotencyKeyHeader))
		if key == "" || cache == nil {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLen {
			return apperr.New(apperr.InvalidInput, "Idempotency-Key too long")
		}

		userID, _ := c.Locals(UserIDKey).(string)
		slot := replayKeyPrefix + userID + ":" + c.Path() + ":" + key
		log := logger.With(slog.String("user_id", userID), slog.String("idempotency_key", key))

		ctx, cancel := context.WithTimeout(c.UserContext(), cacheOpTimeout)
		defer cancel()

		prior, err := lookupReplay(ctx, cache, slot)
		switch {
		case errors.Is(err, errReplayPending):
			return err
		case err != nil:
			log.ErrorContext(ctx, "idempotency lookup failed", slog.Any("error", err))
			return err
		case prior != nil:
			if prior.ContentType != "" {
				c.Set(fiber.HeaderContentType, prior.ContentType)
			}
			return c.Status(prior.Status).Send(prior.Body)
		}

		reserved, err := cache.SetNX(ctx, slot, pendingMarker, ttl).Result()
		if err != nil {
			log.ErrorContext(ctx, "idempotency reservation failed", slog.Any("error", err))
			return err
		}
		if !reserved {
			return errReplayPending
		}

		if err := c.Next(); err != nil {
			releaseSlot(cache, slot)
			return err
		}

		// Only successful outcomes are replayed; a failed request may be retried.
		status := c.Response().StatusCode()
		if status >= fiber.StatusBadRequest {
			releaseSlot(cache, slot)
			return nil
		}

		stored := replay{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err := storeReplay(cache, slot, stored, ttl); err != nil {
			log.ErrorContext(ctx, "idempotency persist failed", slog.Any("error", err))
			releaseSlot(cache, slot)
		}
		return nil
	}
}

// lookupReplay returns the stored replay for slot, nil when the slot is free,
// or errReplayPending while the first request is still running.
func lookupReplay(ctx context.Context, cache *redis.Client, slot string) (*replay, error) {
	raw, err := cache.Get(ctx, slot).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if string(raw) == pendingMarker {
		return nil, errReplayPending
	}
	var r replay
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func storeReplay(cache *redis.Client, slot string, r replay, ttl time.Duration) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()
	return cache.Set(ctx, slot, payload, ttl).Err()
}

func releaseSlot(cache *redis.Client, slot string) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()
	cache.Del(ctx, slot) // nolint:errcheck
}
