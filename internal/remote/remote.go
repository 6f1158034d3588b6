// Package remote описывает удаленное хранилище заметок, с которым работает клиентское ядро.
package remote

import (
	"context"
	"errors"
	"strings"

	"notes-app/internal/model"
)

// NoteStore авторитетное хранилище заметок.
// Все операции могут завершиться ошибкой; ошибки приводятся к *Error.
type NoteStore interface {
	// List возвращает заметки владельца в порядке хранилища
	List(ctx context.Context, ownerID string) ([]model.Note, error)
	// Create создает заметку; id и даты назначает хранилище
	Create(ctx context.Context, ownerID, text string) (model.Note, error)
	// Update применяет патч и возвращает заметку с новым updatedAt
	Update(ctx context.Context, id string, patch model.NotePatch) (model.Note, error)
	// Delete удаляет заметку
	Delete(ctx context.Context, id string) error
}

// Code класс ошибки хранилища
type Code string

const (
	CodeUnknown         Code = "unknown"
	CodeUnavailable     Code = "unavailable"
	CodeTimeout         Code = "timeout"
	CodeNotFound        Code = "not_found"
	CodeInvalid         Code = "invalid"
	CodeUnauthenticated Code = "unauthenticated"
	CodeConflict        Code = "conflict"
	CodeInternal        Code = "internal"
)

// Error ошибка удаленного хранилища. Error() возвращает только читаемое сообщение.
type Error struct {
	Op      string
	Code    Code
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf возвращает код ошибки хранилища или CodeUnknown
func CodeOf(err error) Code {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return CodeUnknown
}

// IsNotFound true для ошибок "заметка не найдена"
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// Normalize приводит заметку из хранилища к канонической форме
func Normalize(n model.Note) model.Note {
	n.ID = strings.TrimSpace(n.ID)
	n.OwnerID = strings.TrimSpace(n.OwnerID)
	n.Title = strings.TrimSpace(n.Title)
	if n.UpdatedAt.IsZero() || n.UpdatedAt.Before(n.CreatedAt) {
		n.UpdatedAt = n.CreatedAt
	}
	return n
}

// NormalizeAll нормализует список и отбрасывает записи без id
func NormalizeAll(notes []model.Note) []model.Note {
	out := make([]model.Note, 0, len(notes))
	for _, n := range notes {
		n = Normalize(n)
		if n.ID == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}
