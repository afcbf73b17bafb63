package handler

import (
	"context"

	"google.golang.org/grpc"

	"github.com/dtroode/attestkeeper-server/internal/logger"
	"github.com/dtroode/attestkeeper-server/internal/model"
)

// AttestationService defines the signing and verification operations.
type AttestationService interface {
	Sign(ctx context.Context, req model.SignRequest) (model.AttestationRecord, error)
	Verify(ctx context.Context, code string, candidate []byte) (model.AttestationRecord, model.VerificationResult, error)
	Lookup(ctx context.Context, code string) (model.AttestationRecord, error)
}

// AttestationServiceName is the fully qualified gRPC service name.
const AttestationServiceName = "attest.Attestation"

// AttestationServiceDesc describes the Attestation service for grpc.Server.
var AttestationServiceDesc = grpc.ServiceDesc{
	ServiceName: AttestationServiceName,
	HandlerType: (*AttestationServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(AttestationServiceName, "Sign", func(srv any, ctx context.Context, req *SignRequest) (*Attestation, error) {
			return srv.(AttestationServer).Sign(ctx, req)
		}),
		unary(AttestationServiceName, "Verify", func(srv any, ctx context.Context, req *VerifyRequest) (*VerifyResponse, error) {
			return srv.(AttestationServer).Verify(ctx, req)
		}),
		unary(AttestationServiceName, "Lookup", func(srv any, ctx context.Context, req *LookupRequest) (*Attestation, error) {
			return srv.(AttestationServer).Lookup(ctx, req)
		}),
	},
	Metadata: "attest/attestation",
}

// AttestationServer is the server API of the Attestation service.
type AttestationServer interface {
	Sign(ctx context.Context, req *SignRequest) (*Attestation, error)
	Verify(ctx context.Context, req *VerifyRequest) (*VerifyResponse, error)
	Lookup(ctx context.Context, req *LookupRequest) (*Attestation, error)
}

// AttestationHandler handles gRPC endpoints for attestations.
type AttestationHandler struct {
	service        AttestationService
	contextManager model.ContextManager
	logger         *logger.Logger
}

var _ AttestationServer = (*AttestationHandler)(nil)

// NewAttestation creates a new Attestation handler.
func NewAttestation(service AttestationService, contextManager model.ContextManager, logger *logger.Logger) *AttestationHandler {
	return &AttestationHandler{
		service:        service,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Sign attests the request content for the authenticated owner.
func (h *AttestationHandler) Sign(ctx context.Context, req *SignRequest) (*Attestation, error) {
	ownerID, err := ownerFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Attestation handler: processing sign request",
		"owner_id", ownerID,
		"content_size", len(req.Content),
		"file_name", req.FileName,
		"upload_context", req.UploadContext)

	signReq := model.SignRequest{
		OwnerID:       ownerID,
		Content:       req.Content,
		UploadContext: req.UploadContext,
	}
	if req.FileName != "" {
		signReq.File = &model.FileInfo{
			Name:     req.FileName,
			Size:     int64(len(req.Content)),
			MIMEType: req.MIMEType,
		}
	}

	record, err := h.service.Sign(ctx, signReq)
	if err != nil {
		h.logger.Error("Attestation handler: sign failed", "owner_id", ownerID, "error", err.Error())
		return nil, handleError(err)
	}

	return convertAttestation(record), nil
}

// Verify checks candidate content against an attestation code.
func (h *AttestationHandler) Verify(ctx context.Context, req *VerifyRequest) (*VerifyResponse, error) {
	record, result, err := h.service.Verify(ctx, req.Code, req.Content)
	if err != nil {
		h.logger.Error("Attestation handler: verify failed", "code", req.Code, "error", err.Error())
		return nil, handleError(err)
	}

	// Callers are anonymous; which integrity check failed stays in the log.
	if result != model.Authentic {
		h.logger.Info("Attestation handler: content not authentic",
			"attestation_id", record.ID,
			"result", result)
		return &VerifyResponse{Result: resultNotAuthentic}, nil
	}

	return &VerifyResponse{
		Result:      string(result),
		Authentic:   true,
		Attestation: convertAttestation(record),
	}, nil
}

// Lookup returns the attestation behind a code.
func (h *AttestationHandler) Lookup(ctx context.Context, req *LookupRequest) (*Attestation, error) {
	record, err := h.service.Lookup(ctx, req.Code)
	if err != nil {
		return nil, handleError(err)
	}
	return convertAttestation(record), nil
}
