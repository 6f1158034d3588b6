package grpcstore

import (
	"context"

	"google.golang.org/grpc"

	"notes-app/internal/converter"
	"notes-app/internal/model"
	"notes-app/internal/session"
	notesv1 "notes-app/pkg/api/notes/v1"
)

// AuthClient вызовы AuthService, возвращающие клиентскую сессию
type AuthClient struct {
	client notesv1.AuthServiceClient
}

// NewAuthClient создает клиента аутентификации
func NewAuthClient(conn grpc.ClientConnInterface) *AuthClient {
	return &AuthClient{client: notesv1.NewAuthServiceClient(conn)}
}

// Register создает аккаунт и сразу открывает сессию
func (c *AuthClient) Register(ctx context.Context, email, password, name string) (session.Session, error) {
	resp, err := c.client.Register(ctx, &notesv1.RegisterRequest{Email: email, Password: password, Name: name})
	if err != nil {
		return session.Session{}, toRemoteError("register", err)
	}
	return toSession(resp), nil
}

// Login открывает сессию по email и паролю
func (c *AuthClient) Login(ctx context.Context, email, password string) (session.Session, error) {
	resp, err := c.client.Login(ctx, &notesv1.LoginRequest{Email: email, Password: password})
	if err != nil {
		return session.Session{}, toRemoteError("login", err)
	}
	return toSession(resp), nil
}

// CurrentUser проверяет токен текущей сессии на сервере
func (c *AuthClient) CurrentUser(ctx context.Context) (model.User, error) {
	resp, err := c.client.CurrentUser(ctx, &notesv1.CurrentUserRequest{})
	if err != nil {
		return model.User{}, toRemoteError("current user", err)
	}
	return converter.APIToUser(resp.User), nil
}

// Logout отзывает токен текущей сессии
func (c *AuthClient) Logout(ctx context.Context) error {
	if _, err := c.client.Logout(ctx, &notesv1.LogoutRequest{}); err != nil {
		return toRemoteError("logout", err)
	}
	return nil
}

func toSession(resp *notesv1.AuthResponse) session.Session {
	s := session.Session{Token: resp.Token, ExpiresAt: resp.ExpiresAt}
	if resp.User != nil {
		s.OwnerID = resp.User.Id
		s.Email = resp.User.Email
		s.Name = resp.User.Name
	}
	return s
}
