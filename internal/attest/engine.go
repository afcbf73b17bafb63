// Package attest signs content hashes and verifies candidate content
// against stored attestation records.
package attest

import (
	"context"
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/attestkeeper-server/internal/logger"
	"github.com/dtroode/attestkeeper-server/internal/metrics"
	"github.com/dtroode/attestkeeper-server/internal/model"
)

// DefaultMaxCodeAttempts is the number of random codes tried before the
// timestamp-suffixed fallback.
const DefaultMaxCodeAttempts = 5

// PublicKeyResolver resolves any key version by id, revoked ones included.
type PublicKeyResolver interface {
	PublicKeyByID(ctx context.Context, keyID uuid.UUID) (model.KeyMaterial, error)
}

// Config tunes an Engine.
type Config struct {
	Mode            model.SignatureMode
	MaxCodeAttempts int
	Random          io.Reader
	Now             func() time.Time
}

// Engine owns the nonce and code counters; run one per process.
type Engine struct {
	store   model.AttestationStore
	keys    PublicKeyResolver
	codes   *CodeAllocator
	nonces  *NonceSource
	logger  *logger.Logger
	metrics *metrics.Metrics

	mode        model.SignatureMode
	maxAttempts int
	now         func() time.Time
}

func NewEngine(
	store model.AttestationStore,
	keys PublicKeyResolver,
	cfg Config,
	logger *logger.Logger,
	m *metrics.Metrics,
) (*Engine, error) {
	if cfg.Mode == "" {
		cfg.Mode = model.SignatureModeEd25519
	}
	if cfg.Mode != model.SignatureModeEd25519 && cfg.Mode != model.SignatureModeKeyedHash {
		return nil, model.InvalidArgument("unknown signature mode %q", cfg.Mode)
	}
	if cfg.MaxCodeAttempts <= 0 {
		cfg.MaxCodeAttempts = DefaultMaxCodeAttempts
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Engine{
		store:       store,
		keys:        keys,
		codes:       NewCodeAllocator(cfg.Random, cfg.Now),
		nonces:      NewNonceSource(cfg.Now),
		logger:      logger,
		metrics:     m,
		mode:        cfg.Mode,
		maxAttempts: cfg.MaxCodeAttempts,
		now:         cfg.Now,
	}, nil
}

// Mode reports the active signature mode.
func (e *Engine) Mode() model.SignatureMode {
	return e.mode
}

// Sign attests content with km's private key and persists the record under
// a freshly allocated verification code.
func (e *Engine) Sign(ctx context.Context, content []byte, km model.KeyMaterial) (model.AttestationRecord, error) {
	priv, err := parsePrivateKey(km.PrivateKey)
	if err != nil {
		return model.AttestationRecord{}, err
	}

	hash := sha256.Sum256(content)
	nonce := e.nonces.Next()
	input := signingInput(hash[:], km.ID, km.KeyVersion, nonce)

	var sig []byte
	switch e.mode {
	case model.SignatureModeKeyedHash:
		sig = keyedHash(priv.Seed(), input)
	default:
		sig = ed25519.Sign(priv, input)
	}

	record := model.AttestationRecord{
		ID:            uuid.New(),
		OwnerID:       km.OwnerID,
		ContentHash:   hex.EncodeToString(hash[:]),
		Signature:     base64.StdEncoding.EncodeToString(sig),
		SignatureMode: e.mode,
		Nonce:         base64.StdEncoding.EncodeToString(nonce),
		PublicKeyRef:  km.ID,
		KeyVersion:    km.KeyVersion,
		CreatedAt:     e.now().UTC(),
	}

	record, err = e.insert(ctx, record)
	if err != nil {
		return model.AttestationRecord{}, err
	}

	e.metrics.SignatureCreated(string(e.mode))
	return record, nil
}

// insert tries random codes, then a timestamp-suffixed one. The store's
// unique constraint decides; nothing is pre-checked.
func (e *Engine) insert(ctx context.Context, record model.AttestationRecord) (model.AttestationRecord, error) {
	var code string
	for attempt := 1; attempt <= e.maxAttempts+1; attempt++ {
		next, err := e.codes.Next()
		if err != nil {
			return model.AttestationRecord{}, err
		}
		code = next
		if attempt > e.maxAttempts {
			code = e.codes.Suffixed(next)
		}
		record.VerificationCode = code

		err = e.store.PutAttestation(ctx, record)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, model.ErrConflict) {
			return model.AttestationRecord{}, fmt.Errorf("failed to put attestation: %w", err)
		}

		e.metrics.CodeCollision()
		e.logger.Debug("Attestation engine: verification code collision", "attempt", attempt, "code", code)
	}

	e.logger.Error("Attestation engine: verification code allocation exhausted", "attempts", e.maxAttempts+1, "last_code", code)
	return model.AttestationRecord{}, model.ErrCodeAllocationExhausted
}

// Verify checks candidate against record. The public key is resolved for
// ed25519 records; when it cannot be found only well-formedness is checked.
func (e *Engine) Verify(ctx context.Context, record model.AttestationRecord, candidate []byte) (model.VerificationResult, error) {
	result, err := e.verify(ctx, record, candidate)
	if err != nil {
		return "", err
	}
	e.metrics.Verification(string(result))
	return result, nil
}

func (e *Engine) verify(ctx context.Context, record model.AttestationRecord, candidate []byte) (model.VerificationResult, error) {
	hash := sha256.Sum256(candidate)
	stored, err := hex.DecodeString(record.ContentHash)
	if err != nil || subtle.ConstantTimeCompare(stored, hash[:]) != 1 {
		return model.ContentTampered, nil
	}

	sig, err := base64.StdEncoding.DecodeString(record.Signature)
	if err != nil {
		return model.SignatureInvalid, nil
	}
	nonce, err := base64.StdEncoding.DecodeString(record.Nonce)
	if err != nil || len(nonce) != NonceSize {
		return model.SignatureInvalid, nil
	}

	switch record.SignatureMode {
	case model.SignatureModeKeyedHash:
		// Needs the private seed; the public path only checks shape.
		if len(sig) != sha256.Size {
			return model.SignatureInvalid, nil
		}
		return model.Authentic, nil
	case model.SignatureModeEd25519, "":
		if len(sig) != ed25519.SignatureSize {
			return model.SignatureInvalid, nil
		}
	default:
		return model.SignatureInvalid, nil
	}

	if e.keys == nil {
		return model.Authentic, nil
	}
	km, err := e.keys.PublicKeyByID(ctx, record.PublicKeyRef)
	if errors.Is(err, model.ErrKeyNotFound) || errors.Is(err, model.ErrNotFound) {
		e.logger.Warn("Attestation engine: signing key not resolvable, checked shape only",
			"attestation_id", record.ID, "key_id", record.PublicKeyRef)
		return model.Authentic, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve public key: %w", err)
	}

	pub, err := parsePublicKey(km.PublicKey)
	if err != nil {
		return model.SignatureInvalid, nil
	}
	if !ed25519.Verify(pub, signingInput(hash[:], record.PublicKeyRef, record.KeyVersion, nonce), sig) {
		return model.SignatureInvalid, nil
	}
	return model.Authentic, nil
}

// signingInput is SHA256(content) ‖ "<keyID>:v<version>" ‖ nonce.
func signingInput(hash []byte, keyID uuid.UUID, version int, nonce []byte) []byte {
	ref := keyID.String() + ":v" + strconv.Itoa(version)
	input := make([]byte, 0, len(hash)+len(ref)+len(nonce))
	input = append(input, hash...)
	input = append(input, ref...)
	return append(input, nonce...)
}

func keyedHash(key, input []byte) []byte {
	m := hmac.New(sha256.New, key)
	_, _ = m.Write(input)
	return m.Sum(nil)
}

func parsePrivateKey(s string) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode([]byte(s))
	if block == nil || block.Type != "PRIVATE KEY" {
		return nil, model.InvalidArgument("key material has no decrypted private key")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrKeyUnrecoverable, err)
	}
	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: private key is %T, not ed25519", model.ErrKeyUnrecoverable, key)
	}
	return priv, nil
}

func parsePublicKey(s string) (ed25519.PublicKey, error) {
	block, _ := pem.Decode([]byte(s))
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, errors.New("no PEM public key block")
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	pub, ok := key.(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is %T, not ed25519", key)
	}
	return pub, nil
}
