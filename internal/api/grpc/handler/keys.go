package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"

	"github.com/dtroode/attestkeeper-server/internal/logger"
	"github.com/dtroode/attestkeeper-server/internal/model"
)

// KeyService defines the owner-facing key lifecycle operations.
type KeyService interface {
	Rotate(ctx context.Context, ownerID uuid.UUID) (model.KeyMaterial, error)
	Revoke(ctx context.Context, ownerID uuid.UUID) error
	PublicKey(ctx context.Context, ownerID uuid.UUID) (model.KeyMaterial, error)
}

// KeysServiceName is the fully qualified gRPC service name.
const KeysServiceName = "attest.Keys"

// KeysServiceDesc describes the Keys service for grpc.Server.
var KeysServiceDesc = grpc.ServiceDesc{
	ServiceName: KeysServiceName,
	HandlerType: (*KeysServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(KeysServiceName, "Rotate", func(srv any, ctx context.Context, req *Empty) (*PublicKey, error) {
			return srv.(KeysServer).Rotate(ctx, req)
		}),
		unary(KeysServiceName, "Revoke", func(srv any, ctx context.Context, req *Empty) (*Empty, error) {
			return srv.(KeysServer).Revoke(ctx, req)
		}),
		unary(KeysServiceName, "PublicKey", func(srv any, ctx context.Context, req *Empty) (*PublicKey, error) {
			return srv.(KeysServer).PublicKey(ctx, req)
		}),
	},
	Metadata: "attest/keys",
}

// KeysServer is the server API of the Keys service.
type KeysServer interface {
	Rotate(ctx context.Context, req *Empty) (*PublicKey, error)
	Revoke(ctx context.Context, req *Empty) (*Empty, error)
	PublicKey(ctx context.Context, req *Empty) (*PublicKey, error)
}

// KeysHandler handles gRPC endpoints for the caller's signing key.
type KeysHandler struct {
	service        KeyService
	contextManager model.ContextManager
	logger         *logger.Logger
}

var _ KeysServer = (*KeysHandler)(nil)

// NewKeys creates a new Keys handler.
func NewKeys(service KeyService, contextManager model.ContextManager, logger *logger.Logger) *KeysHandler {
	return &KeysHandler{
		service:        service,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Rotate issues a new key version. Earlier attestations stay verifiable.
func (h *KeysHandler) Rotate(ctx context.Context, _ *Empty) (*PublicKey, error) {
	ownerID, err := ownerFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	km, err := h.service.Rotate(ctx, ownerID)
	if err != nil {
		h.logger.Error("Keys handler: rotate failed", "owner_id", ownerID, "error", err.Error())
		return nil, handleError(err)
	}
	return convertPublicKey(km), nil
}

func (h *KeysHandler) Revoke(ctx context.Context, _ *Empty) (*Empty, error) {
	ownerID, err := ownerFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	if err := h.service.Revoke(ctx, ownerID); err != nil {
		h.logger.Error("Keys handler: revoke failed", "owner_id", ownerID, "error", err.Error())
		return nil, handleError(err)
	}
	return &Empty{}, nil
}

func (h *KeysHandler) PublicKey(ctx context.Context, _ *Empty) (*PublicKey, error) {
	ownerID, err := ownerFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	km, err := h.service.PublicKey(ctx, ownerID)
	if err != nil {
		return nil, handleError(err)
	}
	return convertPublicKey(km), nil
}
