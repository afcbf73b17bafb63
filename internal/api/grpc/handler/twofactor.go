package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"

	"github.com/dtroode/attestkeeper-server/internal/logger"
	"github.com/dtroode/attestkeeper-server/internal/model"
)

// TwoFactorService defines the TOTP credential lifecycle.
type TwoFactorService interface {
	Setup(ctx context.Context, ownerID uuid.UUID, account string) (model.TOTPEnrollment, error)
	Confirm(ctx context.Context, ownerID uuid.UUID, code string) error
	VerifyLogin(ctx context.Context, ownerID uuid.UUID, code string) error
	RegenerateBackupCodes(ctx context.Context, ownerID uuid.UUID) ([]string, error)
	Disable(ctx context.Context, ownerID uuid.UUID) error
	State(ctx context.Context, ownerID uuid.UUID) (model.TOTPState, error)
}

// TwoFactorServiceName is the fully qualified gRPC service name.
const TwoFactorServiceName = "attest.TwoFactor"

// TwoFactorServiceDesc describes the TwoFactor service for grpc.Server.
var TwoFactorServiceDesc = grpc.ServiceDesc{
	ServiceName: TwoFactorServiceName,
	HandlerType: (*TwoFactorServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(TwoFactorServiceName, "Setup", func(srv any, ctx context.Context, req *SetupRequest) (*SetupResponse, error) {
			return srv.(TwoFactorServer).Setup(ctx, req)
		}),
		unary(TwoFactorServiceName, "Confirm", func(srv any, ctx context.Context, req *CodeRequest) (*StateResponse, error) {
			return srv.(TwoFactorServer).Confirm(ctx, req)
		}),
		unary(TwoFactorServiceName, "VerifyLogin", func(srv any, ctx context.Context, req *CodeRequest) (*Empty, error) {
			return srv.(TwoFactorServer).VerifyLogin(ctx, req)
		}),
		unary(TwoFactorServiceName, "RegenerateBackupCodes", func(srv any, ctx context.Context, req *Empty) (*BackupCodesResponse, error) {
			return srv.(TwoFactorServer).RegenerateBackupCodes(ctx, req)
		}),
		unary(TwoFactorServiceName, "Disable", func(srv any, ctx context.Context, req *Empty) (*StateResponse, error) {
			return srv.(TwoFactorServer).Disable(ctx, req)
		}),
		unary(TwoFactorServiceName, "State", func(srv any, ctx context.Context, req *Empty) (*StateResponse, error) {
			return srv.(TwoFactorServer).State(ctx, req)
		}),
	},
	Metadata: "attest/twofactor",
}

// TwoFactorServer is the server API of the TwoFactor service.
type TwoFactorServer interface {
	Setup(ctx context.Context, req *SetupRequest) (*SetupResponse, error)
	Confirm(ctx context.Context, req *CodeRequest) (*StateResponse, error)
	VerifyLogin(ctx context.Context, req *CodeRequest) (*Empty, error)
	RegenerateBackupCodes(ctx context.Context, req *Empty) (*BackupCodesResponse, error)
	Disable(ctx context.Context, req *Empty) (*StateResponse, error)
	State(ctx context.Context, req *Empty) (*StateResponse, error)
}

// TwoFactorHandler handles gRPC endpoints for TOTP.
type TwoFactorHandler struct {
	service        TwoFactorService
	contextManager model.ContextManager
	logger         *logger.Logger
}

var _ TwoFactorServer = (*TwoFactorHandler)(nil)

// NewTwoFactor creates a new TwoFactor handler.
func NewTwoFactor(service TwoFactorService, contextManager model.ContextManager, logger *logger.Logger) *TwoFactorHandler {
	return &TwoFactorHandler{
		service:        service,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Setup starts enrollment. The secret and backup codes are returned once.
func (h *TwoFactorHandler) Setup(ctx context.Context, req *SetupRequest) (*SetupResponse, error) {
	ownerID, err := ownerFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	enrollment, err := h.service.Setup(ctx, ownerID, req.Account)
	if err != nil {
		h.logger.Error("Two-factor handler: setup failed", "owner_id", ownerID, "error", err.Error())
		return nil, handleError(err)
	}

	return &SetupResponse{
		Secret:          enrollment.Secret,
		ProvisioningURI: enrollment.ProvisioningURI,
		BackupCodes:     enrollment.BackupCodes,
	}, nil
}

func (h *TwoFactorHandler) Confirm(ctx context.Context, req *CodeRequest) (*StateResponse, error) {
	ownerID, err := ownerFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	if err := h.service.Confirm(ctx, ownerID, req.Code); err != nil {
		return nil, handleError(err)
	}
	return &StateResponse{State: string(model.TOTPEnabled)}, nil
}

func (h *TwoFactorHandler) VerifyLogin(ctx context.Context, req *CodeRequest) (*Empty, error) {
	ownerID, err := ownerFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	if err := h.service.VerifyLogin(ctx, ownerID, req.Code); err != nil {
		h.logger.Info("Two-factor handler: login code rejected", "owner_id", ownerID)
		return nil, handleError(err)
	}
	return &Empty{}, nil
}

func (h *TwoFactorHandler) RegenerateBackupCodes(ctx context.Context, _ *Empty) (*BackupCodesResponse, error) {
	ownerID, err := ownerFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	codes, err := h.service.RegenerateBackupCodes(ctx, ownerID)
	if err != nil {
		return nil, handleError(err)
	}
	return &BackupCodesResponse{BackupCodes: codes}, nil
}

func (h *TwoFactorHandler) Disable(ctx context.Context, _ *Empty) (*StateResponse, error) {
	ownerID, err := ownerFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	if err := h.service.Disable(ctx, ownerID); err != nil {
		return nil, handleError(err)
	}
	return &StateResponse{State: string(model.TOTPDisabled)}, nil
}

func (h *TwoFactorHandler) State(ctx context.Context, _ *Empty) (*StateResponse, error) {
	ownerID, err := ownerFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	state, err := h.service.State(ctx, ownerID)
	if err != nil {
		return nil, handleError(err)
	}
	return &StateResponse{State: string(state)}, nil
}
