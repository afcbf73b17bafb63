package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// KeyAlgorithmEd25519 is the only key algorithm issued by the key manager.
const KeyAlgorithmEd25519 = "Ed25519"

// KeyMaterial is an owner's asymmetric key pair.
//
// PrivateKey holds the PEM-encoded private half in process memory only. It is
// never serialized; stores and cache tiers see EncryptedPrivateKey.
type KeyMaterial struct {
	ID                  uuid.UUID `json:"id"`
	OwnerID             uuid.UUID `json:"owner_id"`
	PublicKey           string    `json:"public_key"`
	EncryptedPrivateKey string    `json:"encrypted_private_key"`
	PrivateKey          string    `json:"-"`
	Algorithm           string    `json:"algorithm"`
	KeyVersion          int       `json:"key_version"`
	CreatedAt           time.Time `json:"created_at"`
}

// KeyStore is the durable, authoritative store for key material.
type KeyStore interface {
	// PutKeyMaterial stores km as the owner's current key, superseding any
	// previous current version.
	PutKeyMaterial(ctx context.Context, km KeyMaterial) error
	GetKeyMaterial(ctx context.Context, ownerID uuid.UUID) (KeyMaterial, error)
	GetKeyMaterialByID(ctx context.Context, id uuid.UUID) (KeyMaterial, error)
	GetKeyVersion(ctx context.Context, ownerID uuid.UUID) (int, error)
	// LatestKeyVersion is the highest version ever issued to the owner,
	// revoked ones included, or 0.
	LatestKeyVersion(ctx context.Context, ownerID uuid.UUID) (int, error)
	DeleteKeyMaterial(ctx context.Context, ownerID uuid.UUID) error
}

// Tier tags a cache tier by its position in the lookup order.
type Tier string

const (
	TierPrimary   Tier = "primary"
	TierSecondary Tier = "secondary"
	TierTertiary  Tier = "tertiary"
)

// CachedKeyCopy is a non-authoritative duplicate of KeyMaterial held by a tier.
type CachedKeyCopy struct {
	Tier     Tier
	Key      KeyMaterial
	CachedAt time.Time
}

// CacheTier is one availability copy of encrypted key material. Tiers may be
// stale or empty at any time; Get returns ErrNotFound on a miss.
type CacheTier interface {
	Name() Tier
	Get(ctx context.Context, ownerID uuid.UUID) (CachedKeyCopy, error)
	Put(ctx context.Context, km KeyMaterial) error
	Delete(ctx context.Context, ownerID uuid.UUID) error
}
