package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/attestkeeper-server/internal/model"
)

func handleError(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	var rejected *model.FileRejectedError
	switch {
	case errors.As(err, &rejected):
		return status.Error(codes.InvalidArgument, rejected.Error())
	case errors.Is(err, model.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrKeyNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, model.ErrConflict):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, model.ErrTOTPNotEnabled):
		return status.Error(codes.FailedPrecondition, "two-factor authentication is not enabled")
	case errors.Is(err, model.ErrTOTPCodeInvalid):
		return status.Error(codes.Unauthenticated, "invalid code")
	case errors.Is(err, model.ErrCodeAllocationExhausted):
		return status.Error(codes.ResourceExhausted, "verification code space exhausted, retry later")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
