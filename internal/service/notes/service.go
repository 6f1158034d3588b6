package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"notes-app/internal/model"
	"notes-app/internal/repository"
	svc "notes-app/internal/service"
)

var _ svc.NoteService = (*service)(nil)

type service struct {
	noteRepository repository.NoteRepository
	events         *EventService
	now            func() time.Time
}

// NewNoteService создает новый экземпляр сервиса для работы с заметками.
// events может быть nil, тогда события не публикуются.
func NewNoteService(noteRepository repository.NoteRepository, events *EventService) svc.NoteService {
	return &service{
		noteRepository: noteRepository,
		events:         events,
		now:            model.Now,
	}
}

// Create создает новую заметку владельца
func (s *service) Create(ctx context.Context, ownerID, title, text string) (model.Note, error) {
	if ownerID == "" {
		return model.Note{}, model.ErrEmptyOwner
	}

	now := s.now()
	note := model.Note{
		OwnerID:   ownerID,
		Title:     strings.TrimSpace(title),
		Text:      strings.TrimSpace(text),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := note.Validate(); err != nil {
		return model.Note{}, err
	}

	// ID будет сгенерирован в репозитории
	createdNote, err := s.noteRepository.Create(ctx, note)
	if err != nil {
		return model.Note{}, err
	}

	logrus.WithFields(logrus.Fields{"note_id": createdNote.ID, "owner_id": ownerID}).Debug("note created")
	s.publish(EventCreated, createdNote)

	return createdNote, nil
}

// Get возвращает заметку по её ID
func (s *service) Get(ctx context.Context, ownerID, id string) (model.Note, error) {
	if id == "" {
		return model.Note{}, errors.New("id cannot be empty")
	}

	note, err := s.noteRepository.GetByID(ctx, id)
	if err != nil {
		return model.Note{}, err
	}
	// Чужие заметки не отличаются от несуществующих
	if note.OwnerID != ownerID {
		return model.Note{}, model.ErrNoteNotFound
	}

	return note, nil
}

// List возвращает заметки владельца
func (s *service) List(ctx context.Context, ownerID string) ([]model.Note, error) {
	if ownerID == "" {
		return nil, model.ErrEmptyOwner
	}

	notes, err := s.noteRepository.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return notes, nil
}

// Update применяет патч к заметке: меняются только переданные поля
func (s *service) Update(ctx context.Context, ownerID, id string, patch model.NotePatch) (model.Note, error) {
	existingNote, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return model.Note{}, err
	}

	updated := patch.Apply(existingNote)
	if err := updated.Validate(); err != nil {
		return model.Note{}, err
	}

	updatedNote, err := s.noteRepository.Update(ctx, updated)
	if err != nil {
		return model.Note{}, err
	}

	s.publish(EventUpdated, updatedNote)

	return updatedNote, nil
}

// Delete удаляет заметку по ID
func (s *service) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.noteRepository.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(EventDeleted, model.Note{ID: id, OwnerID: ownerID})

	return nil
}

func (s *service) publish(t EventType, note model.Note) {
	if s.events == nil {
		return
	}
	s.events.Publish(NoteEvent{Type: t, Note: note})
}
