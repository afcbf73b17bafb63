// Package vault seals private key material with AES-256-GCM under a key
// derived from the deployment secret.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/dtroode/attestkeeper-server/internal/model"
)

const (
	// MinIterations is the lowest PBKDF2 work factor New accepts.
	MinIterations = 100_000
	// DefaultIterations follows the current OWASP guidance for PBKDF2-SHA256.
	DefaultIterations = 210_000
	// DefaultSalt is the fixed deployment salt used when none is configured.
	DefaultSalt = "attestkeeper/vault/v1"

	keyLength = 32 // AES-256
	ivLength  = 12 // 96-bit GCM nonce
)

// Vault encrypts and decrypts small secrets. It is safe for concurrent use.
type Vault struct {
	aead cipher.AEAD
	rand io.Reader
}

type options struct {
	salt       []byte
	iterations int
	rand       io.Reader
}

// Option configures a Vault.
type Option func(*options)

// WithSalt overrides the fixed deployment salt.
func WithSalt(salt string) Option {
	return func(o *options) { o.salt = []byte(salt) }
}

// WithIterations overrides the PBKDF2 iteration count.
func WithIterations(n int) Option {
	return func(o *options) { o.iterations = n }
}

// WithRandom replaces the IV source. Tests only.
func WithRandom(r io.Reader) Option {
	return func(o *options) { o.rand = r }
}

// New derives the vault key from secret.
func New(secret string, opts ...Option) (*Vault, error) {
	o := options{
		salt:       []byte(DefaultSalt),
		iterations: DefaultIterations,
		rand:       rand.Reader,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if secret == "" {
		return nil, model.InvalidArgument("vault secret is empty")
	}
	if len(o.salt) == 0 {
		return nil, model.InvalidArgument("vault salt is empty")
	}
	if o.iterations < MinIterations {
		return nil, model.InvalidArgument("pbkdf2 iterations %d below minimum %d", o.iterations, MinIterations)
	}

	key := pbkdf2.Key([]byte(secret), o.salt, o.iterations, keyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}

	return &Vault{aead: aead, rand: o.rand}, nil
}

// Encrypt returns base64(IV ‖ ciphertext ‖ tag) with a fresh IV per call.
func (v *Vault) Encrypt(plaintext []byte) (string, error) {
	iv := make([]byte, ivLength, ivLength+len(plaintext)+v.aead.Overhead())
	if _, err := io.ReadFull(v.rand, iv); err != nil {
		return "", fmt.Errorf("failed to generate iv: %w", err)
	}

	sealed := v.aead.Seal(iv, iv, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Any malformed input or authentication failure
// yields ErrKeyUnrecoverable; partial plaintext is never returned.
func (v *Vault) Decrypt(ciphertext string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed ciphertext encoding", model.ErrKeyUnrecoverable)
	}
	if len(raw) < ivLength+v.aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", model.ErrKeyUnrecoverable)
	}

	iv, sealed := raw[:ivLength], raw[ivLength:]
	plaintext, err := v.aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: authentication failed", model.ErrKeyUnrecoverable)
	}

	return plaintext, nil
}

// EncryptString is Encrypt for string payloads.
func (v *Vault) EncryptString(plaintext string) (string, error) {
	return v.Encrypt([]byte(plaintext))
}

// DecryptString is Decrypt for string payloads.
func (v *Vault) DecryptString(ciphertext string) (string, error) {
	pt, err := v.Decrypt(ciphertext)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}
