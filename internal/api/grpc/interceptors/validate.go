package interceptors

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// validator реализуют сообщения API с правилами валидации
type validator interface {
	Validate() error
}

// ValidateUnaryInterceptor валидирует входящие запросы через их метод Validate.
// Если валидация не пройдена, возвращается ошибка с кодом InvalidArgument.
func ValidateUnaryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if v, ok := req.(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "validation failed: %v", err)
		}
	}

	return handler(ctx, req)
}
