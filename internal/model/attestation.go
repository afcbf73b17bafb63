package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AttestationRecord is a signed statement over a content hash. Only
// VerificationCount changes after creation.
type AttestationRecord struct {
	ID                uuid.UUID
	OwnerID           uuid.UUID
	ContentHash       string
	Signature         string
	SignatureMode     SignatureMode
	Nonce             string
	PublicKeyRef      uuid.UUID
	KeyVersion        int
	VerificationCode  string
	CreatedAt         time.Time
	VerificationCount int64
}

// SignatureMode records how an attestation signature was produced.
type SignatureMode string

const (
	// SignatureModeEd25519 signs with the owner's private key.
	SignatureModeEd25519 SignatureMode = "ed25519"
	// SignatureModeKeyedHash is demo-strength: HMAC-SHA256 keyed by the
	// private key seed. It can only be checked for well-formedness publicly.
	SignatureModeKeyedHash SignatureMode = "hmac-sha256"
)

// VerificationResult is the outcome of checking candidate content against a record.
type VerificationResult string

const (
	Authentic        VerificationResult = "authentic"
	ContentTampered  VerificationResult = "content_tampered"
	SignatureInvalid VerificationResult = "signature_invalid"
)

// Err maps a non-authentic result to its sentinel error.
func (r VerificationResult) Err() error {
	switch r {
	case ContentTampered:
		return ErrContentTampered
	case SignatureInvalid:
		return ErrSignatureInvalid
	default:
		return nil
	}
}

// AttestationStore persists attestation records. PutAttestation must return
// ErrConflict when the verification code is already taken.
type AttestationStore interface {
	PutAttestation(ctx context.Context, record AttestationRecord) error
	GetAttestationByCode(ctx context.Context, code string) (AttestationRecord, error)
	IncrementVerificationCount(ctx context.Context, id uuid.UUID) (int64, error)
}

// SignRequest is the input of the signing flow.
type SignRequest struct {
	OwnerID       uuid.UUID
	Content       []byte
	File          *FileInfo
	UploadContext string
}
