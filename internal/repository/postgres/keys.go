package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/attestkeeper-server/internal/model"
)

var _ model.KeyStore = (*KeyRepository)(nil)

type KeyRepository struct {
	db *Connection
}

func NewKeyRepository(db *Connection) *KeyRepository {
	return &KeyRepository{
		db: db,
	}
}

const keyColumns = `id, owner_id, public_key, encrypted_private_key, algorithm, key_version, created_at`

func scanKey(row pgx.Row) (model.KeyMaterial, error) {
	var km model.KeyMaterial
	err := row.Scan(&km.ID, &km.OwnerID, &km.PublicKey, &km.EncryptedPrivateKey, &km.Algorithm, &km.KeyVersion, &km.CreatedAt)
	if err != nil {
		return model.KeyMaterial{}, mapError(err)
	}
	return km, nil
}

// PutKeyMaterial supersedes the owner's current key and inserts km in one
// transaction. A duplicate (owner, version) yields model.ErrConflict.
func (r *KeyRepository) PutKeyMaterial(ctx context.Context, km model.KeyMaterial) error {
	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		return putKeyMaterial(ctx, tx, km)
	})
}

func putKeyMaterial(ctx context.Context, tx pgx.Tx, km model.KeyMaterial) error {
	const supersede = `
		UPDATE key_materials SET superseded_at = NOW()
		WHERE owner_id = $1 AND superseded_at IS NULL AND revoked_at IS NULL`
	if _, err := tx.Exec(ctx, supersede, km.OwnerID); err != nil {
		return fmt.Errorf("failed to supersede current key: %w", err)
	}

	const insert = `
		INSERT INTO key_materials (id, owner_id, public_key, encrypted_private_key, algorithm, key_version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := tx.Exec(ctx, insert,
		km.ID, km.OwnerID, km.PublicKey, km.EncryptedPrivateKey, km.Algorithm, km.KeyVersion, km.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert key material: %w", mapError(err))
	}
	return nil
}

func (r *KeyRepository) GetKeyMaterial(ctx context.Context, ownerID uuid.UUID) (model.KeyMaterial, error) {
	query := `SELECT ` + keyColumns + ` FROM key_materials
		WHERE owner_id = $1 AND superseded_at IS NULL AND revoked_at IS NULL`
	return scanKey(r.db.QueryRow(ctx, query, ownerID))
}

// GetKeyMaterialByID returns any version, superseded or revoked.
func (r *KeyRepository) GetKeyMaterialByID(ctx context.Context, id uuid.UUID) (model.KeyMaterial, error) {
	query := `SELECT ` + keyColumns + ` FROM key_materials WHERE id = $1`
	return scanKey(r.db.QueryRow(ctx, query, id))
}

func (r *KeyRepository) GetKeyVersion(ctx context.Context, ownerID uuid.UUID) (int, error) {
	const query = `SELECT key_version FROM key_materials
		WHERE owner_id = $1 AND superseded_at IS NULL AND revoked_at IS NULL`
	var version int
	if err := r.db.QueryRow(ctx, query, ownerID).Scan(&version); err != nil {
		return 0, mapError(err)
	}
	return version, nil
}

func (r *KeyRepository) LatestKeyVersion(ctx context.Context, ownerID uuid.UUID) (int, error) {
	const query = `SELECT COALESCE(MAX(key_version), 0) FROM key_materials WHERE owner_id = $1`
	var version int
	if err := r.db.QueryRow(ctx, query, ownerID).Scan(&version); err != nil {
		return 0, mapError(err)
	}
	return version, nil
}

// DeleteKeyMaterial revokes the current key. The row is kept so older
// attestations stay verifiable.
func (r *KeyRepository) DeleteKeyMaterial(ctx context.Context, ownerID uuid.UUID) error {
	const query = `UPDATE key_materials SET revoked_at = NOW()
		WHERE owner_id = $1 AND superseded_at IS NULL AND revoked_at IS NULL`
	cmd, err := r.db.Exec(ctx, query, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
