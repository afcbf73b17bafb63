package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TOTPState is the lifecycle state of a credential.
type TOTPState string

const (
	TOTPDisabled            TOTPState = "disabled"
	TOTPPendingVerification TOTPState = "pending_verification"
	TOTPEnabled             TOTPState = "enabled"
)

// TOTPCredential is an owner's second factor. EncryptedSecret is the base32
// secret sealed by the vault.
type TOTPCredential struct {
	OwnerID          uuid.UUID
	EncryptedSecret  string
	Enabled          bool
	BackupCodeHashes []string
	LastUsedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// State derives the lifecycle state from the stored fields.
func (c TOTPCredential) State() TOTPState {
	switch {
	case c.EncryptedSecret == "":
		return TOTPDisabled
	case c.Enabled:
		return TOTPEnabled
	default:
		return TOTPPendingVerification
	}
}

// TOTPStore persists TOTP credentials.
type TOTPStore interface {
	PutTOTPCredential(ctx context.Context, cred TOTPCredential) error
	GetTOTPCredential(ctx context.Context, ownerID uuid.UUID) (TOTPCredential, error)
	// EnableTOTP enables the credential only while it still holds
	// encryptedSecret; ErrNotFound otherwise.
	EnableTOTP(ctx context.Context, ownerID uuid.UUID, encryptedSecret string) error
	// ConsumeBackupCode removes hash from the owner's set in one atomic
	// statement and reports whether it was present.
	ConsumeBackupCode(ctx context.Context, ownerID uuid.UUID, hash string) (bool, error)
	ReplaceBackupCodes(ctx context.Context, ownerID uuid.UUID, hashes []string) error
	TouchTOTPLastUsed(ctx context.Context, ownerID uuid.UUID, at time.Time) error
	DeleteTOTPCredential(ctx context.Context, ownerID uuid.UUID) error
}

// TOTPEnrollment is returned once by setup; the backup codes are never
// recoverable afterwards.
type TOTPEnrollment struct {
	Secret          string
	ProvisioningURI string
	BackupCodes     []string
}
