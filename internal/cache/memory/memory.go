// Package memory is the in-process key cache tier.
package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/dtroode/attestkeeper-server/internal/cache"
	"github.com/dtroode/attestkeeper-server/internal/model"
)

var _ model.CacheTier = (*Tier)(nil)

type Tier struct {
	c   *gocache.Cache
	ttl time.Duration
	now func() time.Time
}

// New creates a memory tier whose entries expire after ttl.
func New(ttl time.Duration) *Tier {
	return &Tier{c: gocache.New(ttl, time.Minute), ttl: ttl, now: time.Now}
}

func (t *Tier) Name() model.Tier { return model.TierPrimary }

func (t *Tier) Get(_ context.Context, ownerID uuid.UUID) (model.CachedKeyCopy, error) {
	v, ok := t.c.Get(cache.Key(ownerID))
	if !ok {
		return model.CachedKeyCopy{}, model.ErrNotFound
	}
	b, ok := v.([]byte)
	if !ok {
		t.c.Delete(cache.Key(ownerID))
		return model.CachedKeyCopy{}, model.ErrNotFound
	}
	return cache.Decode(model.TierPrimary, b)
}

func (t *Tier) Put(_ context.Context, km model.KeyMaterial) error {
	b, err := cache.Encode(km, t.now())
	if err != nil {
		return err
	}
	t.c.Set(cache.Key(km.OwnerID), b, t.ttl)
	return nil
}

func (t *Tier) Delete(_ context.Context, ownerID uuid.UUID) error {
	t.c.Delete(cache.Key(ownerID))
	return nil
}

// Len reports the number of live entries.
func (t *Tier) Len() int { return t.c.ItemCount() }
