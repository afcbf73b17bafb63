package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/dtroode/attestkeeper-server/internal/attest"
	"github.com/dtroode/attestkeeper-server/internal/filecheck"
	"github.com/dtroode/attestkeeper-server/internal/logger"
	"github.com/dtroode/attestkeeper-server/internal/model"
)

// KeyIssuer supplies the caller's decrypted signing key.
type KeyIssuer interface {
	GetOrCreate(ctx context.Context, ownerID uuid.UUID) (model.KeyMaterial, error)
}

// Attester signs and verifies content.
type Attester interface {
	Sign(ctx context.Context, content []byte, km model.KeyMaterial) (model.AttestationRecord, error)
	Verify(ctx context.Context, record model.AttestationRecord, candidate []byte) (model.VerificationResult, error)
}

// FileValidator checks an upload against a policy.
type FileValidator interface {
	Validate(policy filecheck.Policy, info model.FileInfo, head io.Reader) (model.FileValidationResult, error)
}

// PolicySource resolves upload context names to policies.
type PolicySource interface {
	Get(name string) (filecheck.Policy, error)
}

type Attestations struct {
	keys      KeyIssuer
	attester  Attester
	store     model.AttestationStore
	validator FileValidator
	policies  PolicySource
	logger    *logger.Logger
}

func NewAttestations(
	keys KeyIssuer,
	attester Attester,
	store model.AttestationStore,
	validator FileValidator,
	policies PolicySource,
	logger *logger.Logger,
) *Attestations {
	return &Attestations{
		keys:      keys,
		attester:  attester,
		store:     store,
		validator: validator,
		policies:  policies,
		logger:    logger,
	}
}

// Sign validates an attached file, then signs the content with the owner's
// current key.
func (s *Attestations) Sign(ctx context.Context, req model.SignRequest) (model.AttestationRecord, error) {
	if req.OwnerID == uuid.Nil {
		return model.AttestationRecord{}, model.InvalidArgument("owner id is empty")
	}

	if req.File != nil {
		info := *req.File
		if info.Size == 0 {
			info.Size = int64(len(req.Content))
		}
		policy, err := s.policies.Get(req.UploadContext)
		if err != nil {
			return model.AttestationRecord{}, err
		}
		if _, err := s.validator.Validate(policy, info, bytes.NewReader(req.Content)); err != nil {
			return model.AttestationRecord{}, err
		}
	}

	km, err := s.keys.GetOrCreate(ctx, req.OwnerID)
	if err != nil {
		return model.AttestationRecord{}, fmt.Errorf("failed to get signing key: %w", err)
	}

	record, err := s.attester.Sign(ctx, req.Content, km)
	if err != nil {
		return model.AttestationRecord{}, fmt.Errorf("failed to sign content: %w", err)
	}

	s.logger.Info("Attestation service: content attested",
		"owner_id", req.OwnerID, "attestation_id", record.ID, "code", record.VerificationCode)
	return record, nil
}

// Verify checks candidate content against the record behind code. The
// verification counter is bumped only for authentic content.
func (s *Attestations) Verify(ctx context.Context, code string, candidate []byte) (model.AttestationRecord, model.VerificationResult, error) {
	record, err := s.Lookup(ctx, code)
	if err != nil {
		return model.AttestationRecord{}, "", err
	}

	result, err := s.attester.Verify(ctx, record, candidate)
	if err != nil {
		return model.AttestationRecord{}, "", fmt.Errorf("failed to verify attestation: %w", err)
	}

	if result != model.Authentic {
		s.logger.Info("Attestation service: verification failed", "attestation_id", record.ID, "result", result)
		return record, result, nil
	}

	count, err := s.store.IncrementVerificationCount(ctx, record.ID)
	if err != nil {
		return model.AttestationRecord{}, "", fmt.Errorf("failed to increment verification count: %w", err)
	}
	record.VerificationCount = count

	return record, result, nil
}

// Lookup returns the record behind a verification code.
func (s *Attestations) Lookup(ctx context.Context, code string) (model.AttestationRecord, error) {
	normalized, ok := attest.NormalizeCode(code)
	if !ok {
		return model.AttestationRecord{}, model.InvalidArgument("malformed verification code")
	}

	record, err := s.store.GetAttestationByCode(ctx, normalized)
	if errors.Is(err, model.ErrNotFound) {
		return model.AttestationRecord{}, model.ErrNotFound
	}
	if err != nil {
		return model.AttestationRecord{}, fmt.Errorf("failed to get attestation by code: %w", err)
	}
	return record, nil
}
