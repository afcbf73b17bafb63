package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/attestkeeper-server/internal/model"
)

func ownerFromContext(ctx context.Context, cm model.ContextManager) (uuid.UUID, error) {
	ownerID, ok := cm.GetOwnerIDFromContext(ctx)
	if !ok || ownerID == uuid.Nil {
		return uuid.Nil, status.Error(codes.Unauthenticated, "owner id not found in context")
	}
	return ownerID, nil
}
