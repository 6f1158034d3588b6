// Package direct реализует remote.NoteStore вызовами сервиса заметок в том же процессе.
// Используется в офлайн режиме CLI поверх локального файла bbolt.
package direct

import (
	"context"
	"errors"

	"notes-app/internal/model"
	"notes-app/internal/remote"
	svc "notes-app/internal/service"
	"notes-app/internal/session"
)

// Store хранилище поверх service.NoteService
type Store struct {
	notes    svc.NoteService
	sessions session.Provider
}

var _ remote.NoteStore = (*Store)(nil)

// New создает хранилище; update и delete выполняются от имени владельца текущей сессии
func New(notes svc.NoteService, sessions session.Provider) *Store {
	return &Store{notes: notes, sessions: sessions}
}

func (s *Store) List(ctx context.Context, ownerID string) ([]model.Note, error) {
	list, err := s.notes.List(ctx, ownerID)
	if err != nil {
		return nil, toRemoteError("list", err)
	}
	return remote.NormalizeAll(list), nil
}

func (s *Store) Create(ctx context.Context, ownerID, text string) (model.Note, error) {
	note, err := s.notes.Create(ctx, ownerID, "", text)
	if err != nil {
		return model.Note{}, toRemoteError("create", err)
	}
	return remote.Normalize(note), nil
}

func (s *Store) Update(ctx context.Context, id string, patch model.NotePatch) (model.Note, error) {
	note, err := s.notes.Update(ctx, s.owner(), id, patch)
	if err != nil {
		return model.Note{}, toRemoteError("update", err)
	}
	return remote.Normalize(note), nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.notes.Delete(ctx, s.owner(), id); err != nil {
		return toRemoteError("delete", err)
	}
	return nil
}

func (s *Store) owner() string {
	if s.sessions == nil {
		return ""
	}
	return s.sessions.Current().OwnerID
}

func toRemoteError(op string, err error) error {
	re := &remote.Error{Op: op, Message: err.Error(), Err: err}
	switch {
	case errors.Is(err, model.ErrNoteNotFound):
		re.Code = remote.CodeNotFound
	case errors.Is(err, model.ErrEmptyText), errors.Is(err, model.ErrEmptyOwner):
		re.Code = remote.CodeInvalid
	case errors.Is(err, context.DeadlineExceeded):
		re.Code = remote.CodeTimeout
		re.Message = "request timed out"
	default:
		re.Code = remote.CodeInternal
	}
	return re
}
