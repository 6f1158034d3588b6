package grpcstore

import (
	"context"
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"notes-app/internal/remote"
)

// toRemoteError конвертирует gRPC статус в *remote.Error.
// Сообщение берется из статуса; транспортные детали в него не попадают.
func toRemoteError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &remote.Error{Op: op, Code: remote.CodeTimeout, Message: "request timed out", Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &remote.Error{Op: op, Code: remote.CodeUnknown, Message: "request canceled", Err: err}
	}

	st, ok := status.FromError(err)
	if !ok {
		return &remote.Error{Op: op, Code: remote.CodeUnknown, Message: err.Error(), Err: err}
	}

	re := &remote.Error{Op: op, Message: st.Message(), Err: err}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			re.Reason = info.GetReason()
		}
	}

	switch st.Code() {
	case codes.Unavailable:
		re.Code = remote.CodeUnavailable
		re.Message = "network error"
	case codes.DeadlineExceeded:
		re.Code = remote.CodeTimeout
		re.Message = "request timed out"
	case codes.Canceled:
		re.Code = remote.CodeUnknown
		re.Message = "request canceled"
	case codes.NotFound:
		re.Code = remote.CodeNotFound
	case codes.InvalidArgument:
		re.Code = remote.CodeInvalid
	case codes.Unauthenticated, codes.PermissionDenied:
		re.Code = remote.CodeUnauthenticated
	case codes.AlreadyExists:
		re.Code = remote.CodeConflict
	case codes.Internal:
		re.Code = remote.CodeInternal
	default:
		re.Code = remote.CodeUnknown
	}
	return re
}
