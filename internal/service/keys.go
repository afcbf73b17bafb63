package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dtroode/attestkeeper-server/internal/logger"
	"github.com/dtroode/attestkeeper-server/internal/metrics"
	"github.com/dtroode/attestkeeper-server/internal/model"
)

const (
	pemPublicKey  = "PUBLIC KEY"
	pemPrivateKey = "PRIVATE KEY"

	defaultTierTimeout = 5 * time.Second
)

// Keys manages owner key pairs: the durable store is authoritative and the
// cache tiers, checked in order, only ever hold ciphertext.
type Keys struct {
	store   model.KeyStore
	sealer  model.Sealer
	tiers   []model.CacheTier
	logger  *logger.Logger
	metrics *metrics.Metrics

	rand        io.Reader
	now         func() time.Time
	tierTimeout time.Duration

	pending sync.WaitGroup
}

// KeysOption configures Keys.
type KeysOption func(*Keys)

// WithTierTimeout bounds each background tier operation.
func WithTierTimeout(d time.Duration) KeysOption {
	return func(k *Keys) { k.tierTimeout = d }
}

// WithKeyRandom replaces the key generation entropy source.
func WithKeyRandom(r io.Reader) KeysOption {
	return func(k *Keys) { k.rand = r }
}

func NewKeys(
	store model.KeyStore,
	sealer model.Sealer,
	tiers []model.CacheTier,
	logger *logger.Logger,
	m *metrics.Metrics,
	opts ...KeysOption,
) *Keys {
	k := &Keys{
		store:       store,
		sealer:      sealer,
		tiers:       tiers,
		logger:      logger,
		metrics:     m,
		rand:        rand.Reader,
		now:         time.Now,
		tierTimeout: defaultTierTimeout,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Generate creates an unpersisted version-1 Ed25519 key pair for ownerID.
func (k *Keys) Generate(ownerID uuid.UUID) (model.KeyMaterial, error) {
	if ownerID == uuid.Nil {
		return model.KeyMaterial{}, model.InvalidArgument("owner id is empty")
	}

	pub, priv, err := ed25519.GenerateKey(k.rand)
	if err != nil {
		return model.KeyMaterial{}, fmt.Errorf("failed to generate key pair: %w", err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return model.KeyMaterial{}, fmt.Errorf("failed to marshal public key: %w", err)
	}
	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return model.KeyMaterial{}, fmt.Errorf("failed to marshal private key: %w", err)
	}

	return model.KeyMaterial{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		PublicKey:  string(pem.EncodeToMemory(&pem.Block{Type: pemPublicKey, Bytes: pubDER})),
		PrivateKey: string(pem.EncodeToMemory(&pem.Block{Type: pemPrivateKey, Bytes: privDER})),
		Algorithm:  model.KeyAlgorithmEd25519,
		KeyVersion: 1,
		CreatedAt:  k.now().UTC(),
	}, nil
}

// Persist seals the private half, writes the durable record and then
// refreshes the cache tiers in the background.
func (k *Keys) Persist(ctx context.Context, km model.KeyMaterial) (model.KeyMaterial, error) {
	if err := validateKeyMaterial(km); err != nil {
		return model.KeyMaterial{}, err
	}

	sealed, err := k.sealer.Encrypt([]byte(km.PrivateKey))
	if err != nil {
		return model.KeyMaterial{}, fmt.Errorf("failed to seal private key: %w", err)
	}
	km.EncryptedPrivateKey = sealed
	if km.Algorithm == "" {
		km.Algorithm = model.KeyAlgorithmEd25519
	}
	if km.CreatedAt.IsZero() {
		km.CreatedAt = k.now().UTC()
	}

	if err := k.store.PutKeyMaterial(ctx, km); err != nil {
		return model.KeyMaterial{}, fmt.Errorf("failed to put key material: %w", err)
	}

	k.fill(ctx, k.tiers, km)

	return km, nil
}

// Retrieve returns the owner's current key with the private half decrypted.
// A cached copy is trusted only if its version matches the durable store.
func (k *Keys) Retrieve(ctx context.Context, ownerID uuid.UUID) (model.KeyMaterial, error) {
	if ownerID == uuid.Nil {
		return model.KeyMaterial{}, model.InvalidArgument("owner id is empty")
	}

	durableVersion := 0
	for i, tier := range k.tiers {
		cached, err := tier.Get(ctx, ownerID)
		if err != nil {
			if !errors.Is(err, model.ErrNotFound) {
				k.logger.Warn("Key manager: cache tier read failed", "tier", tier.Name(), "owner_id", ownerID, "error", err)
				k.metrics.CacheError(string(tier.Name()), "get")
			}
			k.metrics.CacheLookup(string(tier.Name()), "miss")
			continue
		}

		if durableVersion == 0 {
			durableVersion, err = k.store.GetKeyVersion(ctx, ownerID)
			if errors.Is(err, model.ErrNotFound) {
				k.metrics.CacheLookup(string(tier.Name()), "stale")
				k.purge(ctx, ownerID)
				return model.KeyMaterial{}, model.ErrKeyNotFound
			}
			if err != nil {
				return model.KeyMaterial{}, fmt.Errorf("failed to get key version: %w", err)
			}
		}

		if cached.Key.OwnerID != ownerID || cached.Key.KeyVersion != durableVersion {
			k.logger.Debug("Key manager: stale cached key",
				"tier", tier.Name(), "owner_id", ownerID,
				"cached_version", cached.Key.KeyVersion, "durable_version", durableVersion)
			k.metrics.CacheLookup(string(tier.Name()), "stale")
			continue
		}

		km, err := k.open(cached.Key)
		if err != nil {
			// The durable copy is authoritative; a corrupt tier is overwritten below.
			k.logger.Warn("Key manager: cached key does not decrypt", "tier", tier.Name(), "owner_id", ownerID, "error", err)
			k.metrics.CacheLookup(string(tier.Name()), "corrupt")
			continue
		}

		k.metrics.CacheLookup(string(tier.Name()), "hit")
		k.fill(ctx, k.tiers[:i], km)
		return km, nil
	}

	stored, err := k.store.GetKeyMaterial(ctx, ownerID)
	if errors.Is(err, model.ErrNotFound) {
		k.purge(ctx, ownerID)
		return model.KeyMaterial{}, model.ErrKeyNotFound
	}
	if err != nil {
		return model.KeyMaterial{}, fmt.Errorf("failed to get key material: %w", err)
	}

	km, err := k.open(stored)
	if err != nil {
		k.logger.Error("Key manager: durable key does not decrypt", "owner_id", ownerID, "key_id", stored.ID, "error", err)
		return model.KeyMaterial{}, err
	}

	k.fill(ctx, k.tiers, km)
	return km, nil
}

// GetOrCreate returns the current key, issuing a first one if none exists.
func (k *Keys) GetOrCreate(ctx context.Context, ownerID uuid.UUID) (model.KeyMaterial, error) {
	km, err := k.Retrieve(ctx, ownerID)
	if err == nil || !errors.Is(err, model.ErrKeyNotFound) {
		return km, err
	}

	latest, err := k.store.LatestKeyVersion(ctx, ownerID)
	if err != nil {
		return model.KeyMaterial{}, fmt.Errorf("failed to get latest key version: %w", err)
	}

	fresh, err := k.Generate(ownerID)
	if err != nil {
		return model.KeyMaterial{}, err
	}
	fresh.KeyVersion = latest + 1

	persisted, err := k.Persist(ctx, fresh)
	if errors.Is(err, model.ErrConflict) {
		// A concurrent request issued the first key.
		return k.Retrieve(ctx, ownerID)
	}
	if err != nil {
		return model.KeyMaterial{}, err
	}

	k.logger.Info("Key manager: issued key", "owner_id", ownerID, "key_id", persisted.ID)
	return persisted, nil
}

// Rotate supersedes the current key with a new version. The previous
// version stays resolvable by id for verifying older attestations.
func (k *Keys) Rotate(ctx context.Context, ownerID uuid.UUID) (model.KeyMaterial, error) {
	if ownerID == uuid.Nil {
		return model.KeyMaterial{}, model.InvalidArgument("owner id is empty")
	}

	current, err := k.store.GetKeyMaterial(ctx, ownerID)
	if errors.Is(err, model.ErrNotFound) {
		return model.KeyMaterial{}, model.ErrKeyNotFound
	}
	if err != nil {
		return model.KeyMaterial{}, fmt.Errorf("failed to get key material: %w", err)
	}

	next, err := k.Generate(ownerID)
	if err != nil {
		return model.KeyMaterial{}, err
	}
	next.KeyVersion = current.KeyVersion + 1

	persisted, err := k.Persist(ctx, next)
	if err != nil {
		return model.KeyMaterial{}, err
	}

	k.logger.Info("Key manager: rotated key",
		"owner_id", ownerID, "key_id", persisted.ID,
		"previous_key_id", current.ID, "key_version", persisted.KeyVersion)
	return persisted, nil
}

// Revoke removes the owner's current key from the durable store and purges
// every tier. Tier failures are logged only.
func (k *Keys) Revoke(ctx context.Context, ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return model.InvalidArgument("owner id is empty")
	}

	err := k.store.DeleteKeyMaterial(ctx, ownerID)
	k.purge(ctx, ownerID)

	if errors.Is(err, model.ErrNotFound) {
		return model.ErrKeyNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete key material: %w", err)
	}

	k.logger.Info("Key manager: revoked key", "owner_id", ownerID)
	return nil
}

// PublicKey returns the owner's current public key for display. A cached
// copy is used without revalidation.
func (k *Keys) PublicKey(ctx context.Context, ownerID uuid.UUID) (model.KeyMaterial, error) {
	if ownerID == uuid.Nil {
		return model.KeyMaterial{}, model.InvalidArgument("owner id is empty")
	}

	for _, tier := range k.tiers {
		cached, err := tier.Get(ctx, ownerID)
		if err == nil && cached.Key.OwnerID == ownerID {
			return publicOnly(cached.Key), nil
		}
	}

	stored, err := k.store.GetKeyMaterial(ctx, ownerID)
	if errors.Is(err, model.ErrNotFound) {
		return model.KeyMaterial{}, model.ErrKeyNotFound
	}
	if err != nil {
		return model.KeyMaterial{}, fmt.Errorf("failed to get key material: %w", err)
	}
	return publicOnly(stored), nil
}

// PublicKeyByID resolves any key version, including revoked ones.
func (k *Keys) PublicKeyByID(ctx context.Context, keyID uuid.UUID) (model.KeyMaterial, error) {
	stored, err := k.store.GetKeyMaterialByID(ctx, keyID)
	if errors.Is(err, model.ErrNotFound) {
		return model.KeyMaterial{}, model.ErrKeyNotFound
	}
	if err != nil {
		return model.KeyMaterial{}, fmt.Errorf("failed to get key material by id: %w", err)
	}
	return publicOnly(stored), nil
}

// Wait blocks until background tier work has finished.
func (k *Keys) Wait() {
	k.pending.Wait()
}

func (k *Keys) open(km model.KeyMaterial) (model.KeyMaterial, error) {
	plain, err := k.sealer.Decrypt(km.EncryptedPrivateKey)
	if err != nil {
		if errors.Is(err, model.ErrKeyUnrecoverable) {
			return model.KeyMaterial{}, err
		}
		return model.KeyMaterial{}, fmt.Errorf("%w: %v", model.ErrKeyUnrecoverable, err)
	}
	if !hasPEMBlock(string(plain), pemPrivateKey) {
		return model.KeyMaterial{}, fmt.Errorf("%w: decrypted key is not a private key", model.ErrKeyUnrecoverable)
	}
	km.PrivateKey = string(plain)
	return km, nil
}

func (k *Keys) fill(ctx context.Context, tiers []model.CacheTier, km model.KeyMaterial) {
	k.fanOut(ctx, tiers, "put", func(ctx context.Context, t model.CacheTier) error {
		return t.Put(ctx, km)
	})
}

func (k *Keys) purge(ctx context.Context, ownerID uuid.UUID) {
	k.fanOut(ctx, k.tiers, "delete", func(ctx context.Context, t model.CacheTier) error {
		return t.Delete(ctx, ownerID)
	})
}

// fanOut runs op against every tier concurrently without blocking the caller.
func (k *Keys) fanOut(ctx context.Context, tiers []model.CacheTier, op string, fn func(context.Context, model.CacheTier) error) {
	if len(tiers) == 0 {
		return
	}

	k.pending.Add(1)
	go func() {
		defer k.pending.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), k.tierTimeout)
		defer cancel()

		var g errgroup.Group
		for _, tier := range tiers {
			g.Go(func() error {
				if err := fn(ctx, tier); err != nil {
					k.logger.Warn("Key manager: cache tier "+op+" failed", "tier", tier.Name(), "error", err)
					k.metrics.CacheError(string(tier.Name()), op)
				}
				return nil
			})
		}
		_ = g.Wait()
	}()
}

func validateKeyMaterial(km model.KeyMaterial) error {
	if km.ID == uuid.Nil {
		return model.InvalidArgument("key id is empty")
	}
	if km.OwnerID == uuid.Nil {
		return model.InvalidArgument("owner id is empty")
	}
	if km.KeyVersion < 1 {
		return model.InvalidArgument("key version %d is not positive", km.KeyVersion)
	}
	if !hasPEMBlock(km.PublicKey, pemPublicKey) {
		return model.InvalidArgument("public key is not a PEM %q block", pemPublicKey)
	}
	if !hasPEMBlock(km.PrivateKey, pemPrivateKey) {
		return model.InvalidArgument("private key is not a PEM %q block", pemPrivateKey)
	}
	return nil
}

func hasPEMBlock(s, blockType string) bool {
	return strings.Contains(s, "-----BEGIN "+blockType+"-----") &&
		strings.Contains(s, "-----END "+blockType+"-----")
}

func publicOnly(km model.KeyMaterial) model.KeyMaterial {
	km.PrivateKey = ""
	km.EncryptedPrivateKey = ""
	return km
}
