package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"notes-app/internal/model"
	"notes-app/internal/repository"
	svc "notes-app/internal/service"
)

const minPasswordLength = 8

var (
	// ErrInvalidCredentials возвращается при неверной паре email/пароль
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidEmail возвращается для некорректного email
	ErrInvalidEmail = errors.New("email is invalid")
	// ErrWeakPassword возвращается для слишком короткого пароля
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters", minPasswordLength)
)

var _ svc.AuthService = (*service)(nil)

type service struct {
	users  repository.UserRepository
	tokens *TokenManager
	cost   int
}

// NewAuthService создает сервис аутентификации
func NewAuthService(users repository.UserRepository, tokens *TokenManager) svc.AuthService {
	return &service{
		users:  users,
		tokens: tokens,
		cost:   bcrypt.DefaultCost,
	}
}

// Register создает учетную запись и сразу выполняет вход
func (s *service) Register(ctx context.Context, email, password, name string) (model.Session, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return model.Session{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return model.Session{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, model.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
	})
	if err != nil {
		return model.Session{}, err
	}

	logrus.WithField("owner_id", user.ID).Info("user registered")

	return s.Login(ctx, email, password)
}

// Login проверяет пароль и выдает токен сессии
func (s *service) Login(ctx context.Context, email, password string) (model.Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.Session{}, ErrInvalidCredentials
		}
		return model.Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.Session{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return model.Session{}, err
	}

	return model.Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// CurrentUser возвращает владельца действующего токена
func (s *service) CurrentUser(ctx context.Context, token string) (model.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return model.User{}, err
	}

	user, err := s.users.GetByID(ctx, claims.OwnerID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.User{}, ErrInvalidToken
		}
		return model.User{}, err
	}

	return user, nil
}

// Logout отзывает токен
func (s *service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}

	s.tokens.Revoke(claims)
	logrus.WithField("owner_id", claims.OwnerID).Info("user logged out")

	return nil
}
