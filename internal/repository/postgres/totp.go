package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/attestkeeper-server/internal/model"
)

var _ model.TOTPStore = (*TOTPRepository)(nil)

type TOTPRepository struct {
	db *Connection
}

func NewTOTPRepository(db *Connection) *TOTPRepository {
	return &TOTPRepository{
		db: db,
	}
}

// PutTOTPCredential inserts or replaces the owner's credential.
func (r *TOTPRepository) PutTOTPCredential(ctx context.Context, cred model.TOTPCredential) error {
	const query = `
		INSERT INTO totp_credentials (owner_id, encrypted_secret, enabled, backup_code_hashes, last_used_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (owner_id) DO UPDATE SET
			encrypted_secret   = EXCLUDED.encrypted_secret,
			enabled            = EXCLUDED.enabled,
			backup_code_hashes = EXCLUDED.backup_code_hashes,
			last_used_at       = EXCLUDED.last_used_at,
			updated_at         = NOW()`

	createdAt := cred.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	hashes := cred.BackupCodeHashes
	if hashes == nil {
		hashes = []string{}
	}

	_, err := r.db.Exec(ctx, query, cred.OwnerID, cred.EncryptedSecret, cred.Enabled, hashes, cred.LastUsedAt, createdAt)
	return mapError(err)
}

func (r *TOTPRepository) GetTOTPCredential(ctx context.Context, ownerID uuid.UUID) (model.TOTPCredential, error) {
	const query = `
		SELECT owner_id, encrypted_secret, enabled, backup_code_hashes, last_used_at, created_at, updated_at
		FROM totp_credentials
		WHERE owner_id = $1`

	var cred model.TOTPCredential
	err := r.db.QueryRow(ctx, query, ownerID).Scan(
		&cred.OwnerID, &cred.EncryptedSecret, &cred.Enabled, &cred.BackupCodeHashes,
		&cred.LastUsedAt, &cred.CreatedAt, &cred.UpdatedAt,
	)
	if err != nil {
		return model.TOTPCredential{}, mapError(err)
	}
	return cred, nil
}

// EnableTOTP is conditional on the secret that was checked, so a Setup that
// replaced it in the meantime leaves the new secret pending.
func (r *TOTPRepository) EnableTOTP(ctx context.Context, ownerID uuid.UUID, encryptedSecret string) error {
	const query = `
		UPDATE totp_credentials
		SET enabled = TRUE, updated_at = NOW()
		WHERE owner_id = $1 AND encrypted_secret = $2`
	return r.execOne(ctx, query, ownerID, encryptedSecret)
}

// ConsumeBackupCode removes hash in a single statement, so two concurrent
// logins with the same code cannot both succeed.
func (r *TOTPRepository) ConsumeBackupCode(ctx context.Context, ownerID uuid.UUID, hash string) (bool, error) {
	const query = `
		UPDATE totp_credentials
		SET backup_code_hashes = array_remove(backup_code_hashes, $2),
		    updated_at = NOW()
		WHERE owner_id = $1 AND enabled AND $2 = ANY(backup_code_hashes)`

	cmd, err := r.db.Exec(ctx, query, ownerID, hash)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *TOTPRepository) ReplaceBackupCodes(ctx context.Context, ownerID uuid.UUID, hashes []string) error {
	const query = `UPDATE totp_credentials SET backup_code_hashes = $2, updated_at = NOW() WHERE owner_id = $1`
	return r.execOne(ctx, query, ownerID, hashes)
}

func (r *TOTPRepository) TouchTOTPLastUsed(ctx context.Context, ownerID uuid.UUID, at time.Time) error {
	const query = `UPDATE totp_credentials SET last_used_at = $2 WHERE owner_id = $1`
	return r.execOne(ctx, query, ownerID, at)
}

func (r *TOTPRepository) DeleteTOTPCredential(ctx context.Context, ownerID uuid.UUID) error {
	const query = `DELETE FROM totp_credentials WHERE owner_id = $1`
	return r.execOne(ctx, query, ownerID)
}

func (r *TOTPRepository) execOne(ctx context.Context, query string, args ...any) error {
	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
