package memory

import (
	"context"
	"sync"
	"time"

	"notes-app/internal/model"
	"notes-app/internal/repository"

	"github.com/google/uuid"
)

var _ repository.NoteRepository = (*repo)(nil)

type repo struct {
	mu    sync.RWMutex
	notes map[string]model.Note
	now   func() time.Time
}

// NewRepository создает новый экземпляр in-memory репозитория на основе map
func NewRepository() repository.NoteRepository {
	return &repo{
		notes: make(map[string]model.Note),
		now:   model.Now,
	}
}

// Create создает новую заметку и возвращает созданную заметку с ID
func (r *repo) Create(ctx context.Context, note model.Note) (model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// ID всегда назначает хранилище
	note.ID = uuid.New().String()

	now := r.now()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = note.CreatedAt

	r.notes[note.ID] = note

	return note, nil
}

// GetByID возвращает заметку по её ID
func (r *repo) GetByID(ctx context.Context, id string) (model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, exists := r.notes[id]
	if !exists {
		return model.Note{}, model.ErrNoteNotFound
	}

	return note, nil
}

// ListByOwner возвращает заметки владельца, новые первыми
func (r *repo) ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]model.Note, 0, len(r.notes))
	for _, note := range r.notes {
		if note.OwnerID != ownerID {
			continue
		}
		notes = append(notes, note)
	}
	repository.SortNewestFirst(notes)

	return notes, nil
}

// Update обновляет существующую заметку и возвращает обновленную заметку
func (r *repo) Update(ctx context.Context, note model.Note) (model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.notes[note.ID]
	if !exists {
		return model.Note{}, model.ErrNoteNotFound
	}

	// Владелец и дата создания неизменяемы
	note.OwnerID = existing.OwnerID
	note.CreatedAt = existing.CreatedAt
	note.UpdatedAt = r.now()
	if note.UpdatedAt.Before(note.CreatedAt) {
		note.UpdatedAt = note.CreatedAt
	}

	r.notes[note.ID] = note

	return note, nil
}

// Delete удаляет заметку по ID
func (r *repo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.notes[id]; !exists {
		return model.ErrNoteNotFound
	}

	delete(r.notes, id)

	return nil
}
