package service

import (
	"context"

	"notes-app/internal/model"
)

// NoteService интерфейс для бизнес-логики работы с заметками.
// Все операции выполняются от имени владельца ownerID.
type NoteService interface {
	// Create создает новую заметку владельца
	Create(ctx context.Context, ownerID, title, text string) (model.Note, error)

	// Get возвращает заметку по её ID
	Get(ctx context.Context, ownerID, id string) (model.Note, error)

	// List возвращает заметки владельца, новые первыми
	List(ctx context.Context, ownerID string) ([]model.Note, error)

	// Update применяет патч к заметке с указанным ID
	Update(ctx context.Context, ownerID, id string, patch model.NotePatch) (model.Note, error)

	// Delete удаляет заметку по ID
	Delete(ctx context.Context, ownerID, id string) error
}

// AuthService интерфейс для регистрации и входа по email/паролю
type AuthService interface {
	// Register создает учетную запись и сразу выполняет вход
	Register(ctx context.Context, email, password, name string) (model.Session, error)

	// Login проверяет пароль и выдает токен сессии
	Login(ctx context.Context, email, password string) (model.Session, error)

	// CurrentUser возвращает владельца действующего токена
	CurrentUser(ctx context.Context, token string) (model.User, error)

	// Logout отзывает токен
	Logout(ctx context.Context, token string) error
}
