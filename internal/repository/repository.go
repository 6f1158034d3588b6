package repository

import (
	"context"

	"notes-app/internal/model"
)

// NoteRepository интерфейс для работы с заметками в хранилище
type NoteRepository interface {
	// Create создает новую заметку и возвращает созданную заметку с ID
	Create(ctx context.Context, note model.Note) (model.Note, error)

	// GetByID возвращает заметку по её ID
	GetByID(ctx context.Context, id string) (model.Note, error)

	// ListByOwner возвращает заметки владельца, новые первыми
	ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error)

	// Update обновляет существующую заметку и возвращает обновленную заметку
	Update(ctx context.Context, note model.Note) (model.Note, error)

	// Delete удаляет заметку по ID
	Delete(ctx context.Context, id string) error
}

// UserRepository интерфейс для хранения учетных записей
type UserRepository interface {
	// Create сохраняет пользователя, email должен быть уникальным
	Create(ctx context.Context, user model.User) (model.User, error)

	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id string) (model.User, error)

	// GetByEmail возвращает пользователя по email
	GetByEmail(ctx context.Context, email string) (model.User, error)
}
