// Package grpcstore реализует remote.NoteStore поверх gRPC API заметок.
package grpcstore

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"notes-app/internal/session"
)

// Dial открывает соединение, которое подписывает вызовы токеном текущей сессии
func Dial(addr string, sessions session.Provider, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts...)
	opts = append(opts, TokenDialOptions(sessions)...)
	return grpc.NewClient(addr, opts...)
}

// TokenDialOptions интерцепторы, добавляющие "authorization: Bearer <token>"
func TokenDialOptions(sessions session.Provider) []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithChainUnaryInterceptor(UnaryTokenInterceptor(sessions)),
		grpc.WithChainStreamInterceptor(StreamTokenInterceptor(sessions)),
	}
}

// UnaryTokenInterceptor подписывает unary вызовы
func UnaryTokenInterceptor(sessions session.Provider) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		return invoker(withToken(ctx, sessions), method, req, reply, cc, opts...)
	}
}

// StreamTokenInterceptor подписывает стримы
func StreamTokenInterceptor(sessions session.Provider) grpc.StreamClientInterceptor {
	return func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		return streamer(withToken(ctx, sessions), desc, cc, method, opts...)
	}
}

func withToken(ctx context.Context, sessions session.Provider) context.Context {
	if sessions == nil {
		return ctx
	}
	token := sessions.Current().Token
	if token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}
