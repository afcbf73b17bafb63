// Package cache holds the encoding shared by the key-material cache tiers.
//
// Tiers store the JSON form of model.KeyMaterial, which never includes the
// decrypted private key.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/attestkeeper-server/internal/model"
)

// KeyPrefix namespaces key-material entries in shared backends.
const KeyPrefix = "attestkeeper:keymat:"

// Key returns the backend key for an owner's cached key material.
func Key(ownerID uuid.UUID) string {
	return KeyPrefix + ownerID.String()
}

type entry struct {
	Key      model.KeyMaterial `json:"key"`
	CachedAt time.Time         `json:"cached_at"`
}

// Encode serializes km for storage in a tier.
func Encode(km model.KeyMaterial, now time.Time) ([]byte, error) {
	km.PrivateKey = ""
	b, err := json.Marshal(entry{Key: km, CachedAt: now.UTC()})
	if err != nil {
		return nil, fmt.Errorf("failed to encode cached key: %w", err)
	}
	return b, nil
}

// Decode parses a tier entry. A corrupt entry is reported as a miss so the
// caller falls through to the next tier.
func Decode(tier model.Tier, b []byte) (model.CachedKeyCopy, error) {
	var e entry
	if err := json.Unmarshal(b, &e); err != nil {
		return model.CachedKeyCopy{}, fmt.Errorf("corrupt %s cache entry: %w", tier, model.ErrNotFound)
	}
	if e.Key.ID == uuid.Nil || e.Key.EncryptedPrivateKey == "" {
		return model.CachedKeyCopy{}, fmt.Errorf("incomplete %s cache entry: %w", tier, model.ErrNotFound)
	}
	return model.CachedKeyCopy{Tier: tier, Key: e.Key, CachedAt: e.CachedAt}, nil
}
