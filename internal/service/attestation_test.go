package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/attestkeeper-server/internal/attest"
	"github.com/dtroode/attestkeeper-server/internal/cache/memory"
	"github.com/dtroode/attestkeeper-server/internal/filecheck"
	"github.com/dtroode/attestkeeper-server/internal/mocks"
	"github.com/dtroode/attestkeeper-server/internal/model"
	"github.com/dtroode/attestkeeper-server/internal/testutil"
)

type fakeAttestationStore struct {
	mu     sync.Mutex
	byCode map[string]model.AttestationRecord
}

func newFakeAttestationStore() *fakeAttestationStore {
	return &fakeAttestationStore{byCode: map[string]model.AttestationRecord{}}
}

func (s *fakeAttestationStore) PutAttestation(_ context.Context, r model.AttestationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byCode[r.VerificationCode]; ok {
		return model.ErrConflict
	}
	s.byCode[r.VerificationCode] = r
	return nil
}

func (s *fakeAttestationStore) GetAttestationByCode(_ context.Context, code string) (model.AttestationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byCode[code]
	if !ok {
		return model.AttestationRecord{}, model.ErrNotFound
	}
	return r, nil
}

func (s *fakeAttestationStore) IncrementVerificationCount(_ context.Context, id uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for code, r := range s.byCode {
		if r.ID == id {
			r.VerificationCount++
			s.byCode[code] = r
			return r.VerificationCount, nil
		}
	}
	return 0, model.ErrNotFound
}

type staticPolicies map[string]filecheck.Policy

func (p staticPolicies) Get(name string) (filecheck.Policy, error) {
	if name == "" {
		return filecheck.DefaultPolicy(), nil
	}
	if policy, ok := p[name]; ok {
		return policy, nil
	}
	return filecheck.Policy{}, model.InvalidArgument("unknown upload context %q", name)
}

type attestationFixture struct {
	svc   *Attestations
	keys  *Keys
	store *fakeAttestationStore
}

func newAttestationFixture(t *testing.T) attestationFixture {
	t.Helper()
	log := testutil.MakeNoopLogger()
	keys := newTestKeys(t, newFakeKeyStore(), memory.New(time.Minute))
	store := newFakeAttestationStore()

	engine, err := attest.NewEngine(store, keys, attest.Config{}, log, nil)
	require.NoError(t, err)

	policies := staticPolicies{
		"identity": {MaxSizeBytes: 1 << 10, AllowedCategories: []model.FileCategory{model.CategoryDocument, model.CategoryImage}, StrictMode: true},
	}
	svc := NewAttestations(keys, engine, store, filecheck.NewValidator(log, nil), policies, log)
	t.Cleanup(keys.Wait)
	return attestationFixture{svc: svc, keys: keys, store: store}
}

func TestAttestations_SignAndVerify(t *testing.T) {
	ctx := context.Background()
	f := newAttestationFixture(t)
	owner := uuid.New()
	content := []byte("signed statement")

	rec, err := f.svc.Sign(ctx, model.SignRequest{OwnerID: owner, Content: content})
	require.NoError(t, err)
	assert.Equal(t, owner, rec.OwnerID)

	got, result, err := f.svc.Verify(ctx, rec.VerificationCode, content)
	require.NoError(t, err)
	assert.Equal(t, model.Authentic, result)
	assert.Equal(t, int64(1), got.VerificationCount)

	got, result, err = f.svc.Verify(ctx, rec.VerificationCode, content)
	require.NoError(t, err)
	assert.Equal(t, model.Authentic, result)
	assert.Equal(t, int64(2), got.VerificationCount)

	_, result, err = f.svc.Verify(ctx, rec.VerificationCode, []byte("signed statement."))
	require.NoError(t, err)
	assert.Equal(t, model.ContentTampered, result)

	stored, err := f.svc.Lookup(ctx, rec.VerificationCode)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.VerificationCount)
}

func TestAttestations_VerifyAfterRotation(t *testing.T) {
	ctx := context.Background()
	f := newAttestationFixture(t)
	owner := uuid.New()

	rec, err := f.svc.Sign(ctx, model.SignRequest{OwnerID: owner, Content: []byte("v1 doc")})
	require.NoError(t, err)

	_, err = f.keys.Rotate(ctx, owner)
	require.NoError(t, err)
	require.NoError(t, f.keys.Revoke(ctx, owner))

	_, result, err := f.svc.Verify(ctx, rec.VerificationCode, []byte("v1 doc"))
	require.NoError(t, err)
	assert.Equal(t, model.Authentic, result)
}

func TestAttestations_SignWithFile(t *testing.T) {
	ctx := context.Background()
	f := newAttestationFixture(t)
	owner := uuid.New()
	pdf := []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n")

	t.Run("accepted", func(t *testing.T) {
		_, err := f.svc.Sign(ctx, model.SignRequest{
			OwnerID:       owner,
			Content:       pdf,
			File:          &model.FileInfo{Name: "passport.pdf", MIMEType: "application/pdf"},
			UploadContext: "identity",
		})
		assert.NoError(t, err)
	})

	t.Run("executable disguised as pdf", func(t *testing.T) {
		_, err := f.svc.Sign(ctx, model.SignRequest{
			OwnerID:       owner,
			Content:       []byte{0x4D, 0x5A, 0x90, 0x00},
			File:          &model.FileInfo{Name: "invoice.pdf", MIMEType: "application/pdf"},
			UploadContext: "identity",
		})
		var rej *model.FileRejectedError
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, model.RejectSignatureMismatch, rej.Reason)
	})

	t.Run("over identity limit", func(t *testing.T) {
		_, err := f.svc.Sign(ctx, model.SignRequest{
			OwnerID:       owner,
			Content:       append(pdf, make([]byte, 2<<10)...),
			File:          &model.FileInfo{Name: "passport.pdf", MIMEType: "application/pdf"},
			UploadContext: "identity",
		})
		var rej *model.FileRejectedError
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, model.RejectTooLarge, rej.Reason)
	})

	t.Run("video not allowed for identity", func(t *testing.T) {
		_, err := f.svc.Sign(ctx, model.SignRequest{
			OwnerID:       owner,
			Content:       []byte("\x00\x00\x00\x18ftypmp42"),
			File:          &model.FileInfo{Name: "selfie.mp4", MIMEType: "video/mp4"},
			UploadContext: "identity",
		})
		assert.ErrorIs(t, err, model.ErrFileRejected)
	})

	t.Run("misspelled upload context", func(t *testing.T) {
		_, err := f.svc.Sign(ctx, model.SignRequest{
			OwnerID:       owner,
			Content:       pdf,
			File:          &model.FileInfo{Name: "passport.pdf", MIMEType: "application/pdf"},
			UploadContext: "identiy",
		})
		assert.ErrorIs(t, err, model.ErrInvalidArgument)
		assert.NotErrorIs(t, err, model.ErrFileRejected)
	})
}

func TestAttestations_Lookup(t *testing.T) {
	ctx := context.Background()
	f := newAttestationFixture(t)

	_, err := f.svc.Lookup(ctx, "not-a-code")
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = f.svc.Lookup(ctx, "ABCDEFGH")
	assert.ErrorIs(t, err, model.ErrNotFound)

	rec, err := f.svc.Sign(ctx, model.SignRequest{OwnerID: uuid.New(), Content: []byte("x")})
	require.NoError(t, err)

	got, err := f.svc.Lookup(ctx, " "+rec.VerificationCode+" ")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
}

func TestAttestations_SignErrors(t *testing.T) {
	ctx := context.Background()
	f := newAttestationFixture(t)

	_, err := f.svc.Sign(ctx, model.SignRequest{})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestAttestations_CounterNotBumpedOnTamper(t *testing.T) {
	ctx := context.Background()
	rec := model.AttestationRecord{ID: uuid.New(), VerificationCode: "ABCDEFGH", ContentHash: "00"}

	store := mocks.NewAttestationStore(t)
	store.On("GetAttestationByCode", mock.Anything, "ABCDEFGH").Return(rec, nil)

	engine, err := attest.NewEngine(store, nil, attest.Config{}, testutil.MakeNoopLogger(), nil)
	require.NoError(t, err)
	svc := NewAttestations(nil, engine, store, nil, nil, testutil.MakeNoopLogger())

	_, result, err := svc.Verify(ctx, "abcdefgh", []byte("anything"))
	require.NoError(t, err)
	assert.Equal(t, model.ContentTampered, result)
	store.AssertNotCalled(t, "IncrementVerificationCount", mock.Anything, mock.Anything)
}

func TestAttestations_IncrementError(t *testing.T) {
	ctx := context.Background()
	f := newAttestationFixture(t)
	rec, err := f.svc.Sign(ctx, model.SignRequest{OwnerID: uuid.New(), Content: []byte("x")})
	require.NoError(t, err)

	store := mocks.NewAttestationStore(t)
	store.On("GetAttestationByCode", mock.Anything, rec.VerificationCode).Return(rec, nil)
	store.On("IncrementVerificationCount", mock.Anything, rec.ID).Return(int64(0), errors.New("db down"))

	engine, err := attest.NewEngine(store, f.keys, attest.Config{}, testutil.MakeNoopLogger(), nil)
	require.NoError(t, err)
	svc := NewAttestations(f.keys, engine, store, nil, nil, testutil.MakeNoopLogger())

	_, _, err = svc.Verify(ctx, rec.VerificationCode, []byte("x"))
	assert.ErrorContains(t, err, "db down")
}
