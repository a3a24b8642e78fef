package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/loadout/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// classify maps a service error onto a gRPC code and the message the caller
// sees. Unclassified errors become a bare internal error.
func classify(err error) (codes.Code, string) {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return codes.Unauthenticated, common.ErrTokenExpired.Error()
	case errors.Is(err, common.ErrInvalidToken):
		return codes.Unauthenticated, common.ErrInvalidToken.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		return codes.Unauthenticated, err.Error()
	case errors.Is(err, common.ErrorConflict):
		return codes.AlreadyExists, err.Error()
	case errors.Is(err, common.ErrorBadRequest):
		return codes.InvalidArgument, err.Error()
	case errors.Is(err, common.ErrorForbidden):
		return codes.PermissionDenied, err.Error()
	case errors.Is(err, common.ErrorNotFound):
		return codes.NotFound, err.Error()
	default:
		return codes.Internal, common.ErrorInternal.Error()
	}
}

// toStatus converts err for the wire. Internal errors are logged in full
// since the caller only sees "internal error".
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	code, msg := classify(err)
	if code == codes.Internal {
		s.logger.Error(ctx, "request failed", "error", err)
	}
	return status.Error(code, msg)
}
