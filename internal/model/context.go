package model

import (
	"context"

	"github.com/google/uuid"
)

type ContextManager interface {
	SetOwnerIDToContext(ctx context.Context, ownerID uuid.UUID) context.Context
	GetOwnerIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
