package grpc

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"notes-app/internal/model"
	"notes-app/internal/service/auth"
)

// errorDomain домен в ErrorInfo деталях ошибки
const errorDomain = "notes.v1"

// Коды ошибок в ErrorInfo.Reason
const (
	ReasonNoteNotFound       = "NOTE_NOT_FOUND"
	ReasonValidation         = "VALIDATION_ERROR"
	ReasonUserExists         = "USER_EXISTS"
	ReasonInvalidCredentials = "INVALID_CREDENTIALS"
	ReasonInvalidToken       = "INVALID_TOKEN"
	ReasonInternal           = "INTERNAL_ERROR"
)

// handleError конвертирует внутренние ошибки в gRPC статусы с ErrorInfo
func handleError(err error, meta map[string]string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNoteNotFound):
		return withInfo(codes.NotFound, "note not found", ReasonNoteNotFound, meta)
	case errors.Is(err, model.ErrEmptyText),
		errors.Is(err, model.ErrEmptyOwner),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword):
		return withInfo(codes.InvalidArgument, err.Error(), ReasonValidation, meta)
	case errors.Is(err, model.ErrUserExists):
		return withInfo(codes.AlreadyExists, "user already exists", ReasonUserExists, meta)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return withInfo(codes.Unauthenticated, err.Error(), ReasonInvalidCredentials, meta)
	case errors.Is(err, auth.ErrInvalidToken):
		return withInfo(codes.Unauthenticated, "invalid token", ReasonInvalidToken, meta)
	}

	// Если ошибка уже gRPC статус - пробрасываем как есть
	if st, ok := status.FromError(err); ok {
		return st.Err()
	}

	// Все остальные ошибки - Internal, без деталей реализации в сообщении
	return withInfo(codes.Internal, "internal error", ReasonInternal, meta)
}

func withInfo(code codes.Code, msg, reason string, meta map[string]string) error {
	st := status.New(code, msg)
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   reason,
		Domain:   errorDomain,
		Metadata: meta,
	})
	if err != nil {
		// Если не удалось добавить детали, возвращаем статус без них
		return st.Err()
	}
	return detailed.Err()
}
