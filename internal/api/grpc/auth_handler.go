package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"notes-app/internal/api/grpc/interceptors"
	"notes-app/internal/converter"
	"notes-app/internal/model"
	svc "notes-app/internal/service"
	notesv1 "notes-app/pkg/api/notes/v1"
)

// AuthHandler реализует gRPC сервер для AuthService
type AuthHandler struct {
	notesv1.UnimplementedAuthServiceServer

	authService svc.AuthService
}

// NewAuthHandler создает хэндлер аутентификации
func NewAuthHandler(authService svc.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register создает учетную запись и возвращает токен
func (h *AuthHandler) Register(ctx context.Context, req *notesv1.RegisterRequest) (*notesv1.AuthResponse, error) {
	session, err := h.authService.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, handleError(err, nil)
	}
	return sessionToAPI(session), nil
}

// Login выдает токен по email и паролю
func (h *AuthHandler) Login(ctx context.Context, req *notesv1.LoginRequest) (*notesv1.AuthResponse, error) {
	session, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, handleError(err, nil)
	}
	return sessionToAPI(session), nil
}

// CurrentUser возвращает владельца токена из запроса
func (h *AuthHandler) CurrentUser(ctx context.Context, req *notesv1.CurrentUserRequest) (*notesv1.CurrentUserResponse, error) {
	p, ok := interceptors.PrincipalFromContext(ctx)
	if !ok {
		return nil, status.Errorf(codes.Unauthenticated, "not authenticated")
	}

	user, err := h.authService.CurrentUser(ctx, p.Token)
	if err != nil {
		return nil, handleError(err, nil)
	}
	return &notesv1.CurrentUserResponse{User: converter.UserToAPI(user)}, nil
}

// Logout отзывает токен из запроса
func (h *AuthHandler) Logout(ctx context.Context, req *notesv1.LogoutRequest) (*notesv1.LogoutResponse, error) {
	p, ok := interceptors.PrincipalFromContext(ctx)
	if !ok {
		return nil, status.Errorf(codes.Unauthenticated, "not authenticated")
	}

	if err := h.authService.Logout(ctx, p.Token); err != nil {
		return nil, handleError(err, nil)
	}
	return &notesv1.LogoutResponse{}, nil
}

func sessionToAPI(s model.Session) *notesv1.AuthResponse {
	return &notesv1.AuthResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User:      converter.UserToAPI(s.User),
	}
}
