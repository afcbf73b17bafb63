package context

import (
	stdctx "context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"
)

func TestManager_SetAndGetOwnerID(t *testing.T) {
	m := NewManager()
	uid := uuid.New()
	ctx := m.SetOwnerIDToContext(stdctx.Background(), uid)

	got, ok := m.GetOwnerIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uid, got)
}

func TestManager_GetOwnerID_NotFound(t *testing.T) {
	m := NewManager()
	_, ok := m.GetOwnerIDFromContext(stdctx.Background())
	assert.False(t, ok)

	ctx := metadata.NewIncomingContext(stdctx.Background(), metadata.Pairs("other", "x"))
	_, ok = m.GetOwnerIDFromContext(ctx)
	assert.False(t, ok)
}

func TestManager_GetOwnerID_Malformed(t *testing.T) {
	m := NewManager()
	ctx := metadata.NewIncomingContext(stdctx.Background(), metadata.Pairs(ownerIDKey, "not-a-uuid"))
	_, ok := m.GetOwnerIDFromContext(ctx)
	assert.False(t, ok)
}

func TestManager_SetOverridesClientValue(t *testing.T) {
	m := NewManager()
	spoofed := uuid.New()
	incoming := metadata.Pairs(ownerIDKey, spoofed.String(), "authorization", "Bearer t")
	ctx := metadata.NewIncomingContext(stdctx.Background(), incoming)

	actual := uuid.New()
	ctx = m.SetOwnerIDToContext(ctx, actual)

	got, ok := m.GetOwnerIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, actual, got)
	assert.Equal(t, []string{spoofed.String()}, incoming.Get(ownerIDKey), "original metadata is not mutated")

	md, _ := metadata.FromIncomingContext(ctx)
	assert.Equal(t, []string{"Bearer t"}, md.Get("authorization"))
}
