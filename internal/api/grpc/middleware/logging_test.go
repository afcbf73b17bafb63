package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/attestkeeper-server/internal/logger"
)

func TestLogging_HandleGRPC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		handler   grpc.UnaryHandler
		wantCode  codes.Code
		wantLevel string
		wantError string
	}{
		{
			name: "signed",
			handler: func(context.Context, any) (any, error) {
				return "ok", nil
			},
			wantCode:  codes.OK,
			wantLevel: "INFO",
		},
		{
			name: "rejected upload",
			handler: func(context.Context, any) (any, error) {
				return nil, status.Error(codes.InvalidArgument, "file rejected")
			},
			wantCode:  codes.InvalidArgument,
			wantLevel: "INFO",
		},
		{
			name: "missing token",
			handler: func(context.Context, any) (any, error) {
				return nil, status.Error(codes.Unauthenticated, "missing token")
			},
			wantCode:  codes.Unauthenticated,
			wantLevel: "WARN",
		},
		{
			name: "plain error counts as internal",
			handler: func(context.Context, any) (any, error) {
				return nil, errors.New("vault unavailable")
			},
			wantCode:  codes.Internal,
			wantLevel: "ERROR",
			wantError: "vault unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			lg := NewLogging(logger.NewWithFormat(-4, "json", &buf))

			info := &grpc.UnaryServerInfo{FullMethod: "/attest.Attestation/Sign"}
			resp, err := lg.HandleGRPC(context.Background(), struct{}{}, info, tt.handler)

			if tt.wantCode == codes.OK {
				require.NoError(t, err)
				assert.Equal(t, "ok", resp)
			} else {
				require.Error(t, err)
			}

			var record map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record), "exactly one JSON record")
			assert.Equal(t, "gRPC request completed", record["msg"])
			assert.Equal(t, tt.wantLevel, record["level"])
			assert.Equal(t, "/attest.Attestation/Sign", record["method"])
			assert.Equal(t, tt.wantCode.String(), record["status"])
			assert.Contains(t, record, "duration_ms")
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, record["error"])
			} else {
				assert.NotContains(t, record, "error")
			}
		})
	}
}
