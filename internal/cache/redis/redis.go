// Package redis is the shared key cache tier.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	rdb "github.com/redis/go-redis/v9"

	"github.com/dtroode/attestkeeper-server/internal/cache"
	"github.com/dtroode/attestkeeper-server/internal/model"
)

// Subset of *rdb.Client used by the tier, so tests can run without a server.
type redisAPI interface {
	Get(ctx context.Context, key string) *rdb.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *rdb.StatusCmd
	Del(ctx context.Context, keys ...string) *rdb.IntCmd
	Ping(ctx context.Context) *rdb.StatusCmd
	Close() error
}

var _ model.CacheTier = (*Tier)(nil)

type Tier struct {
	api redisAPI
	ttl time.Duration
	now func() time.Time
}

// Options configures the redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// New connects to redis and pings it once.
func New(ctx context.Context, opts Options) (*Tier, error) {
	client := rdb.NewClient(&rdb.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewWithAPI(client, opts.TTL), nil
}

// NewWithAPI allows injecting a fake client (used in tests).
func NewWithAPI(api redisAPI, ttl time.Duration) *Tier {
	return &Tier{api: api, ttl: ttl, now: time.Now}
}

func (t *Tier) Name() model.Tier { return model.TierSecondary }

func (t *Tier) Get(ctx context.Context, ownerID uuid.UUID) (model.CachedKeyCopy, error) {
	b, err := t.api.Get(ctx, cache.Key(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, rdb.Nil) {
			return model.CachedKeyCopy{}, model.ErrNotFound
		}
		return model.CachedKeyCopy{}, fmt.Errorf("failed to get cached key: %w", err)
	}
	return cache.Decode(model.TierSecondary, b)
}

func (t *Tier) Put(ctx context.Context, km model.KeyMaterial) error {
	b, err := cache.Encode(km, t.now())
	if err != nil {
		return err
	}
	if err := t.api.Set(ctx, cache.Key(km.OwnerID), b, t.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cached key: %w", err)
	}
	return nil
}

func (t *Tier) Delete(ctx context.Context, ownerID uuid.UUID) error {
	if err := t.api.Del(ctx, cache.Key(ownerID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cached key: %w", err)
	}
	return nil
}

// Ping reports whether redis is reachable.
func (t *Tier) Ping(ctx context.Context) error {
	return t.api.Ping(ctx).Err()
}

func (t *Tier) Close() error {
	return t.api.Close()
}
