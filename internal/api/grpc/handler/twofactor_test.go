package handler

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/attestkeeper-server/internal/mocks"
	"github.com/dtroode/attestkeeper-server/internal/model"
	"github.com/dtroode/attestkeeper-server/internal/testutil"
)

func newTwoFactorHandler(t *testing.T) (*TwoFactorHandler, *mocks.TwoFactorService, uuid.UUID) {
	t.Helper()
	ownerID := uuid.New()
	svc := mocks.NewTwoFactorService(t)
	cm := mocks.NewContextManager(t)
	cm.On("GetOwnerIDFromContext", mock.Anything).Return(ownerID, true)
	return NewTwoFactor(svc, cm, testutil.MakeNoopLogger()), svc, ownerID
}

func TestTwoFactor_Setup(t *testing.T) {
	t.Parallel()

	h, svc, ownerID := newTwoFactorHandler(t)
	svc.On("Setup", mock.Anything, ownerID, "alice@example.com").Return(model.TOTPEnrollment{
		Secret:          "JBSWY3DPEHPK3PXP",
		ProvisioningURI: "otpauth://totp/x",
		BackupCodes:     []string{"AAAAAAAAAA"},
	}, nil)

	resp, err := h.Setup(context.Background(), &SetupRequest{Account: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", resp.Secret)
	assert.Len(t, resp.BackupCodes, 1)
}

func TestTwoFactor_SetupWhileEnabled(t *testing.T) {
	t.Parallel()

	h, svc, ownerID := newTwoFactorHandler(t)
	svc.On("Setup", mock.Anything, ownerID, "").Return(model.TOTPEnrollment{}, model.ErrConflict)

	_, err := h.Setup(context.Background(), &SetupRequest{})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestTwoFactor_Confirm(t *testing.T) {
	t.Parallel()

	h, svc, ownerID := newTwoFactorHandler(t)
	svc.On("Confirm", mock.Anything, ownerID, "123456").Return(nil)
	svc.On("Confirm", mock.Anything, ownerID, "000000").Return(model.ErrTOTPCodeInvalid)

	resp, err := h.Confirm(context.Background(), &CodeRequest{Code: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "enabled", resp.State)

	_, err = h.Confirm(context.Background(), &CodeRequest{Code: "000000"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestTwoFactor_VerifyLogin(t *testing.T) {
	t.Parallel()

	h, svc, ownerID := newTwoFactorHandler(t)
	svc.On("VerifyLogin", mock.Anything, ownerID, "123456").Return(nil)
	svc.On("VerifyLogin", mock.Anything, ownerID, "654321").Return(model.ErrTOTPNotEnabled)

	_, err := h.VerifyLogin(context.Background(), &CodeRequest{Code: "123456"})
	require.NoError(t, err)

	_, err = h.VerifyLogin(context.Background(), &CodeRequest{Code: "654321"})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestTwoFactor_RegenerateDisableState(t *testing.T) {
	t.Parallel()

	h, svc, ownerID := newTwoFactorHandler(t)
	svc.On("RegenerateBackupCodes", mock.Anything, ownerID).Return([]string{"A", "B"}, nil)
	svc.On("Disable", mock.Anything, ownerID).Return(nil)
	svc.On("State", mock.Anything, ownerID).Return(model.TOTPPendingVerification, nil)

	codesResp, err := h.RegenerateBackupCodes(context.Background(), &Empty{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, codesResp.BackupCodes)

	disabled, err := h.Disable(context.Background(), &Empty{})
	require.NoError(t, err)
	assert.Equal(t, "disabled", disabled.State)

	state, err := h.State(context.Background(), &Empty{})
	require.NoError(t, err)
	assert.Equal(t, "pending_verification", state.State)
}
