package context

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

// ownerIDKey is the metadata key carrying the authenticated owner.
const ownerIDKey = "owner_id"

// Manager stores the authenticated owner id in incoming gRPC metadata.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetOwnerIDToContext returns ctx with ownerID in its incoming metadata,
// replacing any value the client sent.
func (m *Manager) SetOwnerIDToContext(ctx context.Context, ownerID uuid.UUID) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.New(map[string]string{ownerIDKey: ownerID.String()})
	} else {
		md = md.Copy()
		md.Set(ownerIDKey, ownerID.String())
	}

	return metadata.NewIncomingContext(ctx, md)
}

// GetOwnerIDFromContext reads the owner id set by SetOwnerIDToContext.
func (m *Manager) GetOwnerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return uuid.Nil, false
	}

	ids := md.Get(ownerIDKey)
	if len(ids) == 0 {
		return uuid.Nil, false
	}

	ownerID, err := uuid.Parse(ids[0])
	if err != nil {
		return uuid.Nil, false
	}

	return ownerID, true
}
