package middleware

import (
	"runtime/debug"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/attestkeeper-server/internal/logger"
)

// RecoveryHandler turns a handler panic into codes.Internal and logs the stack.
func RecoveryHandler(logger *logger.Logger) recovery.RecoveryHandlerFunc {
	return func(p any) error {
		logger.Error("gRPC handler panic", "panic", p, "stack", string(debug.Stack()))
		return status.Error(codes.Internal, "internal server error")
	}
}
