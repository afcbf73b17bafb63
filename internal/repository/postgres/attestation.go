package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/attestkeeper-server/internal/model"
)

var _ model.AttestationStore = (*AttestationRepository)(nil)

type AttestationRepository struct {
	db *Connection
}

func NewAttestationRepository(db *Connection) *AttestationRepository {
	return &AttestationRepository{
		db: db,
	}
}

// PutAttestation relies on the unique constraint on verification_code; a
// taken code surfaces as model.ErrConflict.
func (r *AttestationRepository) PutAttestation(ctx context.Context, rec model.AttestationRecord) error {
	const query = `
		INSERT INTO attestations (id, owner_id, content_hash, signature, signature_mode, nonce,
		                          public_key_ref, key_version, verification_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.OwnerID, rec.ContentHash, rec.Signature, string(rec.SignatureMode), rec.Nonce,
		rec.PublicKeyRef, rec.KeyVersion, rec.VerificationCode, rec.CreatedAt,
	)
	return mapError(err)
}

func (r *AttestationRepository) GetAttestationByCode(ctx context.Context, code string) (model.AttestationRecord, error) {
	const query = `
		SELECT id, owner_id, content_hash, signature, signature_mode, nonce,
		       public_key_ref, key_version, verification_code, created_at, verification_count
		FROM attestations
		WHERE verification_code = $1`

	var rec model.AttestationRecord
	err := r.db.QueryRow(ctx, query, code).Scan(
		&rec.ID, &rec.OwnerID, &rec.ContentHash, &rec.Signature, &rec.SignatureMode, &rec.Nonce,
		&rec.PublicKeyRef, &rec.KeyVersion, &rec.VerificationCode, &rec.CreatedAt, &rec.VerificationCount,
	)
	if err != nil {
		return model.AttestationRecord{}, mapError(err)
	}
	return rec, nil
}

// IncrementVerificationCount bumps the counter in the database and returns
// the new value.
func (r *AttestationRepository) IncrementVerificationCount(ctx context.Context, id uuid.UUID) (int64, error) {
	const query = `
		UPDATE attestations SET verification_count = verification_count + 1
		WHERE id = $1
		RETURNING verification_count`

	var count int64
	if err := r.db.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}
