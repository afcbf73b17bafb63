//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/attestkeeper-server/internal/model"
	repo "github.com/dtroode/attestkeeper-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "attestkeeper_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/attestkeeper_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newKey(owner uuid.UUID, version int) model.KeyMaterial {
	return model.KeyMaterial{
		ID:                  uuid.New(),
		OwnerID:             owner,
		PublicKey:           "-----BEGIN PUBLIC KEY-----\nAAAA\n-----END PUBLIC KEY-----\n",
		EncryptedPrivateKey: "sealed",
		Algorithm:           model.KeyAlgorithmEd25519,
		KeyVersion:          version,
		CreatedAt:           time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestRepositories(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn, repo.PoolOptions{MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	keys := repo.NewKeyRepository(conn)
	attestations := repo.NewAttestationRepository(conn)
	totps := repo.NewTOTPRepository(conn)

	t.Run("key_repository", func(t *testing.T) {
		owner := uuid.New()

		_, err := keys.GetKeyMaterial(ctx, owner)
		require.ErrorIs(t, err, model.ErrNotFound)
		latest, err := keys.LatestKeyVersion(ctx, owner)
		require.NoError(t, err)
		assert.Zero(t, latest)

		v1 := newKey(owner, 1)
		require.NoError(t, keys.PutKeyMaterial(ctx, v1))
		require.ErrorIs(t, keys.PutKeyMaterial(ctx, newKey(owner, 1)), model.ErrConflict)

		v2 := newKey(owner, 2)
		require.NoError(t, keys.PutKeyMaterial(ctx, v2))

		current, err := keys.GetKeyMaterial(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, v2.ID, current.ID)
		version, err := keys.GetKeyVersion(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, 2, version)

		old, err := keys.GetKeyMaterialByID(ctx, v1.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, old.KeyVersion)

		require.NoError(t, keys.DeleteKeyMaterial(ctx, owner))
		require.ErrorIs(t, keys.DeleteKeyMaterial(ctx, owner), model.ErrNotFound)
		_, err = keys.GetKeyVersion(ctx, owner)
		require.ErrorIs(t, err, model.ErrNotFound)

		revoked, err := keys.GetKeyMaterialByID(ctx, v2.ID)
		require.NoError(t, err)
		assert.Equal(t, v2.PublicKey, revoked.PublicKey)

		latest, err = keys.LatestKeyVersion(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, 2, latest)
		require.NoError(t, keys.PutKeyMaterial(ctx, newKey(owner, 3)))
	})

	t.Run("concurrent_first_key", func(t *testing.T) {
		owner := uuid.New()
		var wg sync.WaitGroup
		errs := make([]error, 4)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = keys.PutKeyMaterial(ctx, newKey(owner, 1))
			}(i)
		}
		wg.Wait()

		var ok int
		for _, err := range errs {
			if err == nil {
				ok++
				continue
			}
			assert.ErrorIs(t, err, model.ErrConflict)
		}
		assert.Equal(t, 1, ok)
	})

	t.Run("attestation_repository", func(t *testing.T) {
		km := newKey(uuid.New(), 1)
		require.NoError(t, keys.PutKeyMaterial(ctx, km))

		rec := model.AttestationRecord{
			ID:               uuid.New(),
			OwnerID:          km.OwnerID,
			ContentHash:      "00",
			Signature:        "c2ln",
			SignatureMode:    model.SignatureModeEd25519,
			Nonce:            "bm9uY2U=",
			PublicKeyRef:     km.ID,
			KeyVersion:       km.KeyVersion,
			VerificationCode: "ABCDEFGH",
			CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
		}
		require.NoError(t, attestations.PutAttestation(ctx, rec))

		dup := rec
		dup.ID = uuid.New()
		require.ErrorIs(t, attestations.PutAttestation(ctx, dup), model.ErrConflict)

		got, err := attestations.GetAttestationByCode(ctx, "ABCDEFGH")
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
		assert.Equal(t, model.SignatureModeEd25519, got.SignatureMode)
		assert.Zero(t, got.VerificationCount)

		count, err := attestations.IncrementVerificationCount(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		_, err = attestations.GetAttestationByCode(ctx, "ZZZZZZZZ")
		require.ErrorIs(t, err, model.ErrNotFound)
		_, err = attestations.IncrementVerificationCount(ctx, uuid.New())
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("totp_repository", func(t *testing.T) {
		owner := uuid.New()
		cred := model.TOTPCredential{
			OwnerID:          owner,
			EncryptedSecret:  "sealed",
			BackupCodeHashes: []string{"a", "b"},
		}
		require.NoError(t, totps.PutTOTPCredential(ctx, cred))

		consumed, err := totps.ConsumeBackupCode(ctx, owner, "a")
		require.NoError(t, err)
		assert.False(t, consumed, "pending credential must not accept backup codes")

		require.ErrorIs(t, totps.EnableTOTP(ctx, owner, "replaced"), model.ErrNotFound)
		require.NoError(t, totps.EnableTOTP(ctx, owner, "sealed"))
		consumed, err = totps.ConsumeBackupCode(ctx, owner, "a")
		require.NoError(t, err)
		assert.True(t, consumed)
		consumed, err = totps.ConsumeBackupCode(ctx, owner, "a")
		require.NoError(t, err)
		assert.False(t, consumed)

		require.NoError(t, totps.ReplaceBackupCodes(ctx, owner, []string{"c"}))
		now := time.Now().UTC().Truncate(time.Microsecond)
		require.NoError(t, totps.TouchTOTPLastUsed(ctx, owner, now))

		got, err := totps.GetTOTPCredential(ctx, owner)
		require.NoError(t, err)
		assert.True(t, got.Enabled)
		assert.Equal(t, []string{"c"}, got.BackupCodeHashes)
		require.NotNil(t, got.LastUsedAt)
		assert.True(t, now.Equal(*got.LastUsedAt))

		require.NoError(t, totps.DeleteTOTPCredential(ctx, owner))
		_, err = totps.GetTOTPCredential(ctx, owner)
		require.ErrorIs(t, err, model.ErrNotFound)
		require.ErrorIs(t, totps.EnableTOTP(ctx, owner, "sealed"), model.ErrNotFound)
	})
}
