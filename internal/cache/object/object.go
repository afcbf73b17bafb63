// Package object is the key cache tier backed by object storage.
package object

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/attestkeeper-server/internal/cache"
	"github.com/dtroode/attestkeeper-server/internal/model"
)

// maxEntrySize bounds a single cached key object.
const maxEntrySize = 64 << 10

var _ model.CacheTier = (*Tier)(nil)

type Tier struct {
	storage model.Storage
	now     func() time.Time
}

func New(storage model.Storage) *Tier {
	return &Tier{storage: storage, now: time.Now}
}

func (t *Tier) Name() model.Tier { return model.TierTertiary }

func objectKey(ownerID uuid.UUID) string {
	return "keys/" + ownerID.String() + ".json"
}

func (t *Tier) Get(ctx context.Context, ownerID uuid.UUID) (model.CachedKeyCopy, error) {
	rc, err := t.storage.Download(ctx, objectKey(ownerID))
	if err != nil {
		return model.CachedKeyCopy{}, err
	}
	defer rc.Close()

	b, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return model.CachedKeyCopy{}, fmt.Errorf("failed to read cached key: %w", err)
	}
	if len(b) > maxEntrySize {
		return model.CachedKeyCopy{}, fmt.Errorf("oversized cached key object: %w", model.ErrNotFound)
	}
	return cache.Decode(model.TierTertiary, b)
}

func (t *Tier) Put(ctx context.Context, km model.KeyMaterial) error {
	b, err := cache.Encode(km, t.now())
	if err != nil {
		return err
	}
	return t.storage.Upload(ctx, objectKey(km.OwnerID), bytes.NewReader(b), int64(len(b)))
}

func (t *Tier) Delete(ctx context.Context, ownerID uuid.UUID) error {
	return t.storage.Delete(ctx, objectKey(ownerID))
}
