package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/attestkeeper-server/internal/logger"
	"github.com/dtroode/attestkeeper-server/internal/metrics"
	"github.com/dtroode/attestkeeper-server/internal/model"
	"github.com/dtroode/attestkeeper-server/internal/totp"
)

// TwoFactor drives the TOTP credential lifecycle:
// disabled -> pending verification -> enabled -> disabled.
type TwoFactor struct {
	store   model.TOTPStore
	sealer  model.Sealer
	issuer  string
	window  int
	logger  *logger.Logger
	metrics *metrics.Metrics

	rand io.Reader
	now  func() time.Time
}

// TwoFactorOption configures TwoFactor.
type TwoFactorOption func(*TwoFactor)

// WithClock replaces the time source.
func WithClock(now func() time.Time) TwoFactorOption {
	return func(s *TwoFactor) { s.now = now }
}

// WithWindow sets the accepted drift in time steps on each side.
func WithWindow(steps int) TwoFactorOption {
	return func(s *TwoFactor) { s.window = steps }
}

func NewTwoFactor(
	store model.TOTPStore,
	sealer model.Sealer,
	issuer string,
	logger *logger.Logger,
	m *metrics.Metrics,
	opts ...TwoFactorOption,
) *TwoFactor {
	s := &TwoFactor{
		store:   store,
		sealer:  sealer,
		issuer:  issuer,
		window:  totp.DefaultWindow,
		logger:  logger,
		metrics: m,
		rand:    rand.Reader,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Setup issues a new secret and backup codes with the credential left
// unconfirmed. An enabled credential must be disabled first.
func (s *TwoFactor) Setup(ctx context.Context, ownerID uuid.UUID, account string) (model.TOTPEnrollment, error) {
	if ownerID == uuid.Nil {
		return model.TOTPEnrollment{}, model.InvalidArgument("owner id is empty")
	}
	if account == "" {
		account = ownerID.String()
	}

	existing, err := s.store.GetTOTPCredential(ctx, ownerID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.TOTPEnrollment{}, fmt.Errorf("failed to get totp credential: %w", err)
	}
	if err == nil && existing.State() == model.TOTPEnabled {
		return model.TOTPEnrollment{}, fmt.Errorf("two-factor already enabled: %w", model.ErrConflict)
	}

	_, secret, err := totp.GenerateSecret(s.rand)
	if err != nil {
		return model.TOTPEnrollment{}, err
	}
	sealed, err := s.sealer.Encrypt([]byte(secret))
	if err != nil {
		return model.TOTPEnrollment{}, fmt.Errorf("failed to seal totp secret: %w", err)
	}

	codes, err := totp.GenerateBackupCodes(s.rand, totp.BackupCodeCount)
	if err != nil {
		return model.TOTPEnrollment{}, err
	}

	now := s.now().UTC()
	cred := model.TOTPCredential{
		OwnerID:          ownerID,
		EncryptedSecret:  sealed,
		Enabled:          false,
		BackupCodeHashes: totp.HashBackupCodes(codes),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.PutTOTPCredential(ctx, cred); err != nil {
		return model.TOTPEnrollment{}, fmt.Errorf("failed to put totp credential: %w", err)
	}

	s.logger.Info("Two-factor: setup started", "owner_id", ownerID)
	return model.TOTPEnrollment{
		Secret:          secret,
		ProvisioningURI: totp.ProvisioningURI(s.issuer, account, secret),
		BackupCodes:     codes,
	}, nil
}

// Confirm checks a code against the pending secret and enables the
// credential on the first match.
func (s *TwoFactor) Confirm(ctx context.Context, ownerID uuid.UUID, code string) error {
	cred, err := s.credential(ctx, ownerID)
	if err != nil {
		return err
	}
	if cred.State() == model.TOTPDisabled {
		return model.ErrTOTPNotEnabled
	}

	ok, err := s.checkCode(cred, code)
	if err != nil {
		return err
	}
	if !ok {
		s.metrics.TOTPAttempt("confirm", "invalid")
		return model.ErrTOTPCodeInvalid
	}

	if !cred.Enabled {
		err := s.store.EnableTOTP(ctx, ownerID, cred.EncryptedSecret)
		if errors.Is(err, model.ErrNotFound) {
			// The checked secret was replaced or removed after it was read.
			s.metrics.TOTPAttempt("confirm", "stale")
			s.logger.Warn("Two-factor: credential changed during confirmation", "owner_id", ownerID)
			return model.ErrTOTPCodeInvalid
		}
		if err != nil {
			return fmt.Errorf("failed to enable totp: %w", err)
		}
		s.logger.Info("Two-factor: enabled", "owner_id", ownerID)
	}
	s.touch(ctx, ownerID)
	s.metrics.TOTPAttempt("confirm", "ok")
	return nil
}

// VerifyLogin accepts a current TOTP code or, failing that, an unused
// backup code. A backup code is consumed by the same statement that checks it.
func (s *TwoFactor) VerifyLogin(ctx context.Context, ownerID uuid.UUID, code string) error {
	cred, err := s.credential(ctx, ownerID)
	if err != nil {
		return err
	}
	if cred.State() != model.TOTPEnabled {
		return model.ErrTOTPNotEnabled
	}

	ok, err := s.checkCode(cred, code)
	if err != nil {
		return err
	}
	if ok {
		s.touch(ctx, ownerID)
		s.metrics.TOTPAttempt("totp", "ok")
		return nil
	}

	if normalized := totp.NormalizeBackupCode(code); len(normalized) == totp.BackupCodeLength {
		consumed, err := s.store.ConsumeBackupCode(ctx, ownerID, totp.HashBackupCode(normalized))
		if err != nil {
			return fmt.Errorf("failed to consume backup code: %w", err)
		}
		if consumed {
			s.touch(ctx, ownerID)
			s.metrics.TOTPAttempt("backup_code", "ok")
			s.logger.Info("Two-factor: backup code used", "owner_id", ownerID)
			return nil
		}
	}

	s.metrics.TOTPAttempt("login", "invalid")
	return model.ErrTOTPCodeInvalid
}

// RegenerateBackupCodes replaces every stored backup code.
func (s *TwoFactor) RegenerateBackupCodes(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	cred, err := s.credential(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if cred.State() == model.TOTPDisabled {
		return nil, model.ErrTOTPNotEnabled
	}

	codes, err := totp.GenerateBackupCodes(s.rand, totp.BackupCodeCount)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceBackupCodes(ctx, ownerID, totp.HashBackupCodes(codes)); err != nil {
		return nil, fmt.Errorf("failed to replace backup codes: %w", err)
	}

	s.logger.Info("Two-factor: backup codes regenerated", "owner_id", ownerID)
	return codes, nil
}

// Disable removes the credential.
func (s *TwoFactor) Disable(ctx context.Context, ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return model.InvalidArgument("owner id is empty")
	}
	err := s.store.DeleteTOTPCredential(ctx, ownerID)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrTOTPNotEnabled
	}
	if err != nil {
		return fmt.Errorf("failed to delete totp credential: %w", err)
	}
	s.logger.Info("Two-factor: disabled", "owner_id", ownerID)
	return nil
}

// ProvisioningURI rebuilds the otpauth URI for a pending or enabled credential.
func (s *TwoFactor) ProvisioningURI(ctx context.Context, ownerID uuid.UUID, account string) (string, error) {
	cred, err := s.credential(ctx, ownerID)
	if err != nil {
		return "", err
	}
	secret, err := s.sealer.Decrypt(cred.EncryptedSecret)
	if err != nil {
		return "", err
	}
	if account == "" {
		account = ownerID.String()
	}
	return totp.ProvisioningURI(s.issuer, account, string(secret)), nil
}

// State reports the owner's credential state.
func (s *TwoFactor) State(ctx context.Context, ownerID uuid.UUID) (model.TOTPState, error) {
	cred, err := s.store.GetTOTPCredential(ctx, ownerID)
	if errors.Is(err, model.ErrNotFound) {
		return model.TOTPDisabled, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get totp credential: %w", err)
	}
	return cred.State(), nil
}

func (s *TwoFactor) credential(ctx context.Context, ownerID uuid.UUID) (model.TOTPCredential, error) {
	if ownerID == uuid.Nil {
		return model.TOTPCredential{}, model.InvalidArgument("owner id is empty")
	}
	cred, err := s.store.GetTOTPCredential(ctx, ownerID)
	if errors.Is(err, model.ErrNotFound) {
		return model.TOTPCredential{}, model.ErrTOTPNotEnabled
	}
	if err != nil {
		return model.TOTPCredential{}, fmt.Errorf("failed to get totp credential: %w", err)
	}
	return cred, nil
}

// checkCode reports whether code is a valid TOTP code for cred. Input that
// is not six digits is a plain mismatch.
func (s *TwoFactor) checkCode(cred model.TOTPCredential, code string) (bool, error) {
	code = strings.ReplaceAll(strings.TrimSpace(code), " ", "")
	if len(code) != totp.Digits {
		return false, nil
	}

	encoded, err := s.sealer.Decrypt(cred.EncryptedSecret)
	if err != nil {
		return false, err
	}
	secret, err := totp.DecodeSecret(string(encoded))
	if err != nil {
		return false, fmt.Errorf("%w: stored totp secret: %v", model.ErrKeyUnrecoverable, err)
	}

	ok, _ := totp.Verify(secret, code, s.now(), s.window)
	return ok, nil
}

func (s *TwoFactor) touch(ctx context.Context, ownerID uuid.UUID) {
	if err := s.store.TouchTOTPLastUsed(ctx, ownerID, s.now().UTC()); err != nil {
		s.logger.Warn("Two-factor: failed to record last use", "owner_id", ownerID, "error", err)
	}
}
