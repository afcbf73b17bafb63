package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"

	_ "github.com/dtroode/attestkeeper-server/internal/api/grpc/codec"
	"github.com/dtroode/attestkeeper-server/internal/api/grpc/handler"
	"github.com/dtroode/attestkeeper-server/internal/api/grpc/middleware"
	"github.com/dtroode/attestkeeper-server/internal/logger"
	"github.com/dtroode/attestkeeper-server/internal/model"
)

// publicMethods are served without a bearer token.
var publicMethods = map[string]struct{}{
	"/" + handler.AttestationServiceName + "/Verify": {},
	"/" + handler.AttestationServiceName + "/Lookup": {},
}

// Router wires handlers and interceptors into a grpc.Server.
type Router struct {
	attestations   handler.AttestationService
	keys           handler.KeyService
	twoFactor      handler.TwoFactorService
	tokens         model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	attestations handler.AttestationService,
	keys handler.KeyService,
	twoFactor handler.TwoFactorService,
	tokens model.TokenManager,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		attestations:   attestations,
		keys:           keys,
		twoFactor:      twoFactor,
		tokens:         tokens,
		contextManager: contextManager,
		logger:         logger,
	}
}

func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	_, public := publicMethods[c.FullMethod()]
	return !public
}

// Register builds the server with recovery, logging and authentication
// interceptors and registers every service.
func (r *Router) Register(opts ...grpc.ServerOption) *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)
	recoveryOpt := recovery.WithRecoveryHandler(middleware.RecoveryHandler(r.logger))

	opts = append(opts,
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recoveryOpt),
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recoveryOpt),
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)

	s := grpc.NewServer(opts...)
	s.RegisterService(&handler.AttestationServiceDesc, handler.NewAttestation(r.attestations, r.contextManager, r.logger))
	s.RegisterService(&handler.KeysServiceDesc, handler.NewKeys(r.keys, r.contextManager, r.logger))
	s.RegisterService(&handler.TwoFactorServiceDesc, handler.NewTwoFactor(r.twoFactor, r.contextManager, r.logger))

	return s
}
