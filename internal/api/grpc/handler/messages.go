package handler

import (
	"time"

	"github.com/dtroode/attestkeeper-server/internal/model"
)

// Empty is the request or response of methods without a payload.
type Empty struct{}

// SignRequest asks for an attestation over Content. FileName turns on upload
// validation under the UploadContext policy.
type SignRequest struct {
	Content       []byte `json:"content"`
	FileName      string `json:"file_name,omitempty"`
	MIMEType      string `json:"mime_type,omitempty"`
	UploadContext string `json:"upload_context,omitempty"`
}

type VerifyRequest struct {
	Code    string `json:"code"`
	Content []byte `json:"content"`
}

type LookupRequest struct {
	Code string `json:"code"`
}

type Attestation struct {
	ID                string    `json:"id"`
	OwnerID           string    `json:"owner_id"`
	VerificationCode  string    `json:"verification_code"`
	ContentHash       string    `json:"content_hash"`
	Signature         string    `json:"signature"`
	SignatureMode     string    `json:"signature_mode"`
	Nonce             string    `json:"nonce"`
	PublicKeyRef      string    `json:"public_key_ref"`
	KeyVersion        int       `json:"key_version"`
	CreatedAt         time.Time `json:"created_at"`
	VerificationCount int64     `json:"verification_count"`
}

// resultNotAuthentic is reported for every failed integrity check.
const resultNotAuthentic = "not_authentic"

type VerifyResponse struct {
	Result      string       `json:"result"`
	Authentic   bool         `json:"authentic"`
	Attestation *Attestation `json:"attestation,omitempty"`
}

// PublicKey never carries private material.
type PublicKey struct {
	KeyID      string    `json:"key_id"`
	PublicKey  string    `json:"public_key"`
	Algorithm  string    `json:"algorithm"`
	KeyVersion int       `json:"key_version"`
	CreatedAt  time.Time `json:"created_at"`
}

type SetupRequest struct {
	Account string `json:"account,omitempty"`
}

type SetupResponse struct {
	Secret          string   `json:"secret"`
	ProvisioningURI string   `json:"provisioning_uri"`
	BackupCodes     []string `json:"backup_codes"`
}

type CodeRequest struct {
	Code string `json:"code"`
}

type BackupCodesResponse struct {
	BackupCodes []string `json:"backup_codes"`
}

type StateResponse struct {
	State string `json:"state"`
}

func convertAttestation(r model.AttestationRecord) *Attestation {
	return &Attestation{
		ID:                r.ID.String(),
		OwnerID:           r.OwnerID.String(),
		VerificationCode:  r.VerificationCode,
		ContentHash:       r.ContentHash,
		Signature:         r.Signature,
		SignatureMode:     string(r.SignatureMode),
		Nonce:             r.Nonce,
		PublicKeyRef:      r.PublicKeyRef.String(),
		KeyVersion:        r.KeyVersion,
		CreatedAt:         r.CreatedAt,
		VerificationCount: r.VerificationCount,
	}
}

func convertPublicKey(km model.KeyMaterial) *PublicKey {
	return &PublicKey{
		KeyID:      km.ID.String(),
		PublicKey:  km.PublicKey,
		Algorithm:  km.Algorithm,
		KeyVersion: km.KeyVersion,
		CreatedAt:  km.CreatedAt,
	}
}
