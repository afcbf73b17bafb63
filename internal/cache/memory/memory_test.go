package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/attestkeeper-server/internal/cache"
	"github.com/dtroode/attestkeeper-server/internal/model"
)

func testKey() model.KeyMaterial {
	return model.KeyMaterial{
		ID:                  uuid.New(),
		OwnerID:             uuid.New(),
		PublicKey:           "pub",
		EncryptedPrivateKey: "enc",
		PrivateKey:          "plain",
		Algorithm:           model.KeyAlgorithmEd25519,
		KeyVersion:          1,
	}
}

func TestTier_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	tier := New(time.Minute)
	km := testKey()

	_, err := tier.Get(ctx, km.OwnerID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, tier.Put(ctx, km))
	assert.Equal(t, 1, tier.Len())

	got, err := tier.Get(ctx, km.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, model.TierPrimary, got.Tier)
	assert.Equal(t, km.ID, got.Key.ID)
	assert.Empty(t, got.Key.PrivateKey)

	require.NoError(t, tier.Delete(ctx, km.OwnerID))
	_, err = tier.Get(ctx, km.OwnerID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestTier_Expiry(t *testing.T) {
	ctx := context.Background()
	tier := New(10 * time.Millisecond)
	km := testKey()
	require.NoError(t, tier.Put(ctx, km))

	assert.Eventually(t, func() bool {
		_, err := tier.Get(ctx, km.OwnerID)
		return err != nil
	}, time.Second, 5*time.Millisecond)
}

func TestTier_ForeignValueIsMiss(t *testing.T) {
	tier := New(time.Minute)
	owner := uuid.New()
	tier.c.Set(cache.Key(owner), "not bytes", time.Minute)

	_, err := tier.Get(context.Background(), owner)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, 0, tier.Len())
}
