package interceptors

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"notes-app/internal/service/auth"
	notesv1 "notes-app/pkg/api/notes/v1"
)

// authorizationHeader - имя заголовка для авторизации в metadata
const authorizationHeader = "authorization"

// publicMethods не требуют токена
var publicMethods = map[string]bool{
	notesv1.AuthService_Register_FullMethodName: true,
	notesv1.AuthService_Login_FullMethodName:    true,
}

// TokenVerifier проверяет токен сессии
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// Principal - аутентифицированный вызывающий
type Principal struct {
	Claims auth.Claims
	Token  string
}

type principalKey struct{}

// WithPrincipal кладет вызывающего в контекст
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext достает вызывающего из контекста
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// AuthUnaryInterceptor проверяет токен в заголовке "authorization" ("Bearer <token>").
// Владелец токена кладется в контекст; при ошибке возвращается Unauthenticated.
func AuthUnaryInterceptor(verifier TokenVerifier) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if publicMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		p, err := authenticate(ctx, verifier)
		if err != nil {
			return nil, err
		}

		return handler(WithPrincipal(ctx, p), req)
	}
}

// AuthStreamInterceptor делает то же для стримов
func AuthStreamInterceptor(verifier TokenVerifier) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		p, err := authenticate(ss.Context(), verifier)
		if err != nil {
			return err
		}
		return handler(srv, &principalStream{ServerStream: ss, ctx: WithPrincipal(ss.Context(), p)})
	}
}

func authenticate(ctx context.Context, verifier TokenVerifier) (Principal, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return Principal{}, status.Errorf(codes.Unauthenticated, "metadata not provided")
	}

	authHeaders := md.Get(authorizationHeader)
	if len(authHeaders) == 0 {
		return Principal{}, status.Errorf(codes.Unauthenticated, "authorization header not provided")
	}

	authHeader := authHeaders[0]
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return Principal{}, status.Errorf(codes.Unauthenticated, "invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := verifier.Verify(token)
	if err != nil {
		return Principal{}, status.Errorf(codes.Unauthenticated, "invalid token")
	}

	return Principal{Claims: claims, Token: token}, nil
}

// principalStream подменяет контекст стрима
type principalStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *principalStream) Context() context.Context {
	return s.ctx
}
